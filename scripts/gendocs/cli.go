package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapcheck/internal/cli"
	"github.com/leapstack-labs/leapcheck/internal/cli/config"
	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandSections adds command specific sections after the generic ones.
var commandSections = map[string]func(w *MarkdownWriter) error{
	"validate": writeReportFormat,
}

// generateCLIDocs writes index.md plus one page per leapcheck command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := documentedCommands(root)

	if err := writePage(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		w, err := commandPage(cmd)
		if err != nil {
			return fmt.Errorf("page for %s: %w", cmd.Name(), err)
		}
		if err := writePage(outDir, cmd.Name()+".md", w); err != nil {
			return err
		}
	}
	return nil
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leapcheck")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapcheck/cmd/leapcheck@latest")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(cmds))
	for _, cmd := range cmds {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Every setting of %s can be overridden with a %s variable; nested keys use a double underscore. Flags take precedence over the environment, which takes precedence over the file.",
		InlineCode("leapcheck.yaml"), InlineCode(config.EnvPrefix)))
	env := make([][]string, 0, len(settingDocs))
	for _, s := range settings() {
		env = append(env, []string{InlineCode(s.EnvVar), InlineCode(s.Key), s.Default})
	}
	w.Table([]string{"Variable", "Setting", "Default"}, env)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode(strconv.Itoa(cli.ExitOK)), "No ERROR was recorded"},
		{InlineCode(strconv.Itoa(cli.ExitFailed)), "A run recorded an ERROR (warnings count under --strict), or the command itself failed and printed the reason on stderr"},
	})

	w.Header(2, "Getting Help")
	w.CodeBlock("bash", "leapcheck --help\nleapcheck validate --help")
	return w
}

func commandPage(cmd *cobra.Command) (*MarkdownWriter, error) {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		writeFlagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	if section, ok := commandSections[cmd.Name()]; ok {
		if err := section(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// writeReportFormat documents the validate output from a sample report so
// the page follows core.Report and core.Message.
func writeReportFormat(w *MarkdownWriter) error {
	msgs := []core.Message{
		{Level: core.LevelError, Message: "Row 3: field 'price' invalid - must be <= 100", Row: 3, Column: "price", File: "prices.csv"},
		{Level: core.LevelError, Message: "Row 4: duplicate primary key (state=CA, source_name=acme) first seen at row 2", Row: 4, File: "prices.csv"},
		{Level: core.LevelWarning, Message: "Extra columns in prices.csv: comment", File: "prices.csv"},
	}
	rep := core.NewReport(msgs)

	w.Header(2, "Report Format")
	w.Paragraph("Text and markdown output list every message in detection order with its level, row and column:")
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = m.String()
	}
	w.CodeBlock("text", strings.Join(lines, "\n"))

	w.Paragraph(fmt.Sprintf("With %s the report is a single JSON object. %s is %s or %s, and %s and %s are omitted when a message has none.",
		InlineCode("--output json"), InlineCode("status"), InlineCode(core.StatusPassed), InlineCode(core.StatusFailed),
		InlineCode("row"), InlineCode("column")))
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sample report: %w", err)
	}
	w.CodeBlock("json", string(data))
	return nil
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if f.Value.Type() == "string" && def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.TrimSpace(example)
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
