package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vissm/vissm/pkg/advisor"
	"github.com/vissm/vissm/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for the AI advisor",
	Run: func(cmd *cobra.Command, args []string) {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Welcome to vissm Setup Wizard")
		fmt.Println("---------------------------------")

		// 1. Select Provider
		fmt.Println("Step 1: Choose your AI Provider")
		fmt.Println("1. Gemini (Google)")
		fmt.Println("2. OpenAI")
		fmt.Println("3. Anthropic")
		fmt.Print("Enter number or name > ")
		scanner.Scan()
		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))

		var provider string
		switch choice {
		case "1", "gemini":
			provider = "gemini"
		case "2", "openai":
			provider = "openai"
		case "3", "anthropic":
			provider = "anthropic"
		default:
			fmt.Println("Invalid choice. Aborting.")
			return
		}

		// 2. Enter API Key
		fmt.Printf("\nStep 2: Enter API Key for %s\n", provider)
		fmt.Print("> ")
		scanner.Scan()
		apiKey := strings.TrimSpace(scanner.Text())
		if apiKey == "" {
			fmt.Println("API Key cannot be empty.")
			return
		}

		// 3. Fetch Models
		fmt.Println("\nStep 3: Validating key and fetching available models...")
		ctx := context.Background()

		tempProvider, err := advisor.NewProvider(ctx, provider, apiKey, "")
		if err != nil {
			fmt.Printf("Error initializing provider: %v\n", err)
			return
		}

		models, err := tempProvider.ListModels(ctx)
		selectedModel := chooseModel(scanner, models, err)

		// 4. Save Configuration
		fmt.Println("\nStep 4: Saving Configuration...")
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cfg.SelectedProvider = provider
		cfg.SelectedModel = selectedModel
		cfg.SetAPIKey(provider, apiKey)

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Println("---------------------------------")
		fmt.Println("Setup Complete!")
		fmt.Printf("Provider: %s\n", provider)
		fmt.Printf("Model:    %s\n", selectedModel)
		fmt.Println("You can now run 'vissm advise <scan.nessus>'")
	},
}

// chooseModel resolves the model selection. A fetch error or an empty
// model list (some APIs return an empty set with no error) falls back to
// manual entry; an invalid numeric choice falls back to the first model.
func chooseModel(scanner *bufio.Scanner, models []string, fetchErr error) string {
	if fetchErr != nil || len(models) == 0 {
		if fetchErr != nil {
			fmt.Printf("Warning: Could not fetch models from API: %v\n", fetchErr)
		} else {
			fmt.Println("Warning: Provider returned no models.")
		}
		fmt.Println("Please enter model name manually (e.g., 'gemini-pro', 'gpt-4'):")
		fmt.Print("> ")
		scanner.Scan()
		return strings.TrimSpace(scanner.Text())
	}

	fmt.Printf("Successfully retrieved %d models.\n", len(models))
	for i, m := range models {
		fmt.Printf("%d. %s\n", i+1, m)
	}
	fmt.Print("Select Model (number) > ")
	scanner.Scan()
	selIdx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || selIdx < 1 || selIdx > len(models) {
		fmt.Println("Invalid selection. Using first available model.")
		return models[0]
	}
	return models[selIdx-1]
}

func init() {
	configCmd.AddCommand(setupCmd)
}
