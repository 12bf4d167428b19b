// Package cli provides shared terminal output helpers for the advisor
// command-line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Success prints a success message in green
func Success(msg string) {
	successColor.Println(msg)
}

// Error prints an error message in red
func Error(msg string) {
	errorColor.Println(msg)
}

// Warning prints a warning message in yellow
func Warning(msg string) {
	warningColor.Println(msg)
}

// Info prints an info message in cyan
func Info(msg string) {
	infoColor.Println(msg)
}

// Confirm prompts the user for a yes/no answer and returns true on "y".
// It returns an error when stdin is not a terminal, so scripted runs
// must pass an explicit flag instead of relying on the prompt.
func Confirm(message string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("cannot prompt for confirmation in non-interactive mode; pass --yes")
	}
	fmt.Print(message)
	var response string
	_, _ = fmt.Scanln(&response)
	return response == "y" || response == "Y", nil
}

// PrintTable prints data in table format
func PrintTable(headers []string, rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
}

// PrintJSON prints data in JSON format
func PrintJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// PrintYAML prints data in YAML format
func PrintYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(v)
}
