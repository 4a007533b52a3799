// Command runner walks an operator through a checklist execution from the
// terminal, against a running API instance.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/apiclient"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/flow"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:3001", "API base URL")
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "login password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	ctx := context.Background()

	client := apiclient.New(*baseURL)
	login, err := client.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Logged in as %s (%s)\n", login.User.Name, login.User.Role)

	source := &stdinSource{reader: bufio.NewReader(os.Stdin)}
	runner := flow.NewRunner(client, source)

	result, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Execution failed: %v", err)
	}

	fmt.Printf("\nChecklist finished: %s\n", result)
}

// stdinSource collects answers interactively.
type stdinSource struct {
	reader *bufio.Reader
}

func (s *stdinSource) NextStep(p flow.Prompt) (flow.Step, error) {
	fmt.Println()
	if p.LastError != nil {
		fmt.Printf("!! %v\n", p.LastError)
	}

	fmt.Printf("[%d/%d] %s\n", p.Position, p.Total, p.Question.Text)
	if p.Question.RequiresPhoto {
		fmt.Println("    (photo required for a non-conformity)")
	}
	if p.Answered {
		fmt.Println("    (already answered: [n]ext or [b]ack)")
	}

	for {
		fmt.Print("c=conforme  nc=nao conforme  na=nao se aplica  b=back  n=next > ")
		choice, err := s.readLine()
		if err != nil {
			return flow.Step{}, err
		}

		switch choice {
		case "b":
			return flow.Step{Action: flow.ActionBack}, nil
		case "n":
			return flow.Step{Action: flow.ActionNext}, nil
		case "c":
			return flow.Step{Action: flow.ActionAnswer, Value: models.AnswerConforme}, nil
		case "na":
			return flow.Step{Action: flow.ActionAnswer, Value: models.AnswerNaoSeAplica}, nil
		case "nc":
			return s.nonConformityStep(p.Question)
		default:
			fmt.Printf("unknown option %q\n", choice)
		}
	}
}

func (s *stdinSource) nonConformityStep(question models.Question) (flow.Step, error) {
	fmt.Print("observation: ")
	observation, err := s.readLine()
	if err != nil {
		return flow.Step{}, err
	}

	var photoPath string
	if question.RequiresPhoto {
		fmt.Print("photo file path: ")
		photoPath, err = s.readLine()
		if err != nil {
			return flow.Step{}, err
		}
	}

	return flow.Step{
		Action:      flow.ActionAnswer,
		Value:       models.AnswerNaoConforme,
		Observation: observation,
		PhotoPath:   photoPath,
	}, nil
}

func (s *stdinSource) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" && err == io.EOF {
		return "", fmt.Errorf("input closed")
	}
	return line, nil
}
