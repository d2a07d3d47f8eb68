// Package cli implements the interactive terminal client for NutriGenie.
// It talks to the server over the HTTP API and walks the user through
// registration, login, asking the assistant and managing saved history.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dkovalev/nutrigenie/internal/client/api"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
)

type App struct {
	client   *api.Client
	reader   *bufio.Reader
	userName string
}

func NewApp(serverAddr string) *App {
	return &App{
		client: api.NewClient(serverAddr),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root runs the command loop until EOF or an exit command.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to NutriGenie (type 'help' for commands)")

	if err := a.client.Ping(ctx); err != nil {
		fmt.Printf("Warning: server unreachable: %v\n", err)
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("genie %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.client.LoggedIn() {
				fmt.Println("Available commands: ask, history, delete, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, ask, exit")
			}
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "ask":
			a.ask(ctx)
		case "history":
			a.history(ctx)
		case "delete":
			a.deleteEntry(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: %s\n", parts[0])
		}
	}
}

func (a *App) register(ctx context.Context) {

	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	user, err := a.client.Register(ctx, username, email, string(password))
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}

	fmt.Printf("Registered %s. You can now log in.\n", user.Username)
}

func (a *App) login(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	user, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Println("Invalid email or password")
		} else {
			fmt.Printf("Login failed: %v\n", err)
		}
		return
	}

	a.userName = user.Username
	fmt.Printf("Logged in as %s\n", user.Username)
}

func (a *App) logout(ctx context.Context) {
	if err := a.client.Logout(ctx); err != nil {
		fmt.Printf("Logout failed: %v\n", err)
	}
	a.userName = ""
	fmt.Println("Logged out")
}

// chooseFeature prompts with the numbered feature list.
func (a *App) chooseFeature() (string, error) {

	fmt.Println("Choose a feature:")
	for i, f := range searches.Features {
		fmt.Printf("  %d. %s\n", i+1, f)
	}

	choice, err := GetSimpleText(a.reader, "Feature number", os.Stdout)
	if err != nil {
		return "", err
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(searches.Features) {
		return "", fmt.Errorf("invalid choice %q", choice)
	}

	return string(searches.Features[n-1]), nil
}

func (a *App) ask(ctx context.Context) {

	feature, err := a.chooseFeature()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	query, err := GetSimpleText(a.reader, "Enter your question", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	result, err := a.client.Ask(ctx, feature, query, nil, "")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	if result.ModelUsed != nil {
		fmt.Printf("[%s]\n", *result.ModelUsed)
	}
	fmt.Println(result.Response)
}

func (a *App) history(ctx context.Context) {

	feature, err := a.chooseFeature()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	entries, err := a.client.History(ctx, feature)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Println("Please log in first")
		} else {
			fmt.Printf("Request failed: %v\n", err)
		}
		return
	}

	if len(entries) == 0 {
		fmt.Println("No saved history for this feature")
		return
	}

	for _, e := range entries {
		fmt.Printf("#%d %s\n  Q: %s\n  A: %s\n", e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Query, e.Response)
	}
}

func (a *App) deleteEntry(ctx context.Context) {

	idText, err := GetSimpleText(a.reader, "Enter history entry id", os.Stdout)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		fmt.Printf("Invalid id %q\n", idText)
		return
	}

	if err := a.client.DeleteHistory(ctx, id); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Println("Please log in first")
		} else {
			fmt.Printf("Request failed: %v\n", err)
		}
		return
	}

	fmt.Println("Deleted")
}
