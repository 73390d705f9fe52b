// bdii is an interactive demo driver over one table: it opens a heap
// and its sequential indexes from a JSONC table config and exposes
// insert/select_eq/select_between/delete as REPL commands.
//
// Usage:
//
//	bdii -c table.json
//
// Commands (in REPL):
//
//	insert col=val [col=val ...]     Insert a row
//	select_eq <col> <key>            Equality lookup
//	between <col> <lo> <hi>          Range lookup
//	delete <col> <key>               Delete matching rows
//	scan                             Full heap scan, all rows
//	help                             Show this help
//	exit / quit / q                  Exit
//
// Grounded on cmd/sloty/main.go's REPL shape (liner prompt, history
// file, tab completion) and run_mvp.py's operation sequence, adapted
// from a fixed demo script into an interactive loop over any table a
// config file describes.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/pflag"

	"github.com/DarkNight7593/Proyecto-BDII/internal/config"
	"github.com/DarkNight7593/Proyecto-BDII/internal/executor"
	"github.com/DarkNight7593/Proyecto-BDII/internal/heap"
	"github.com/DarkNight7593/Proyecto-BDII/internal/index"
	"github.com/DarkNight7593/Proyecto-BDII/internal/lockfile"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.StringP("config", "c", "", "path to a table config file (JSONC)")
	withLock := pflag.Bool("lock", false, "hold an advisory lock on the table for the REPL's lifetime")
	pflag.Parse()

	if *configPath == "" {
		pflag.Usage()
		return fmt.Errorf("missing required --config")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	sc, err := cfg.Schema()
	if err != nil {
		return err
	}

	if *withLock {
		lk, err := lockfile.Lock(cfg.HeapPath() + ".lock")
		if err != nil {
			return fmt.Errorf("acquiring table lock: %w", err)
		}
		defer lk.Close()
	}

	h, err := heap.Open(cfg.HeapPath(), sc)
	if err != nil {
		return fmt.Errorf("opening heap: %w", err)
	}

	var indexes []*index.Index
	for _, col := range cfg.Indexes {
		ix, err := index.Open(cfg.IndexPath(col), col)
		if err != nil {
			return fmt.Errorf("opening index on %q: %w", col, err)
		}
		indexes = append(indexes, ix)
	}

	ex := executor.New(h, indexes)

	repl := &REPL{ex: ex, schema: sc, tableName: cfg.Name}
	return repl.Run()
}

// REPL is the interactive command loop over one table's executor.
type REPL struct {
	ex        *executor.Executor
	schema    schema.Schema
	tableName string
	liner     *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bdii_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("bdii - table %q\n", r.tableName)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("bdii> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "insert":
			r.cmdInsert(args)
		case "select_eq", "eq":
			r.cmdSelectEq(args)
		case "between", "select_between":
			r.cmdSelectBetween(args)
		case "delete", "del":
			r.cmdDelete(args)
		case "scan":
			r.cmdScan()
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"insert", "select_eq", "eq", "between", "select_between",
		"delete", "del", "scan", "help", "exit", "quit", "q",
	}
	var completions []string
	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			completions = append(completions, c)
		}
	}
	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  insert col=val [col=val ...]     Insert a row")
	fmt.Println("  select_eq <col> <key>            Equality lookup")
	fmt.Println("  between <col> <lo> <hi>          Range lookup")
	fmt.Println("  delete <col> <key>               Delete matching rows")
	fmt.Println("  scan                             Full heap scan, all rows")
	fmt.Println("  help                             Show this help")
	fmt.Println("  exit / quit / q                  Exit")
}

// parseValue parses raw user input into a schema.Value matching col's
// declared kind.
func parseValue(col schema.Column, raw string) (schema.Value, error) {
	switch col.Kind {
	case schema.Int:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return schema.Value{}, fmt.Errorf("column %q wants an integer: %w", col.Name, err)
		}
		return schema.IntValue(int32(n)), nil
	case schema.Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return schema.Value{}, fmt.Errorf("column %q wants a float: %w", col.Name, err)
		}
		return schema.FloatValue(f), nil
	case schema.Varchar, schema.Date:
		return schema.TextValue(col.Kind, raw), nil
	default:
		return schema.Value{}, fmt.Errorf("column %q has an unsupported kind", col.Name)
	}
}

func (r *REPL) cmdInsert(args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: insert col=val [col=val ...]")
		return
	}

	row := schema.NewRow()
	for _, kv := range args {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Printf("Error: %q is not col=val\n", kv)
			return
		}
		col, ok := r.schema.Column(name)
		if !ok {
			fmt.Printf("Error: unknown column %q\n", name)
			return
		}
		v, err := parseValue(col, raw)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		row.Set(name, v)
	}

	rid, err := r.ex.Insert(row)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: inserted at %s\n", rid.String())
}

func (r *REPL) lookupColumn(name string) (schema.Column, bool) {
	return r.schema.Column(name)
}

func (r *REPL) cmdSelectEq(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: select_eq <col> <key>")
		return
	}
	col, ok := r.lookupColumn(args[0])
	if !ok {
		fmt.Printf("Error: unknown column %q\n", args[0])
		return
	}
	key, err := parseValue(col, args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	rows, err := r.ex.SelectEq(args[0], key)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printRows(r.schema, rows)
}

func (r *REPL) cmdSelectBetween(args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: between <col> <lo> <hi>")
		return
	}
	col, ok := r.lookupColumn(args[0])
	if !ok {
		fmt.Printf("Error: unknown column %q\n", args[0])
		return
	}
	lo, err := parseValue(col, args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	hi, err := parseValue(col, args[2])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	rows, err := r.ex.SelectBetween(args[0], lo, hi)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printRows(r.schema, rows)
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: delete <col> <key>")
		return
	}
	col, ok := r.lookupColumn(args[0])
	if !ok {
		fmt.Printf("Error: unknown column %q\n", args[0])
		return
	}
	key, err := parseValue(col, args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	n, err := r.ex.Delete(args[0], key)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: deleted %d row(s)\n", n)
}

func (r *REPL) cmdScan() {
	var rows []schema.Row
	for row := range r.ex.Heap.IterRows() {
		rows = append(rows, row)
	}
	printRows(r.schema, rows)
}

func printRows(sc schema.Schema, rows []schema.Row) {
	if len(rows) == 0 {
		fmt.Println("(empty)")
		return
	}
	for i, row := range rows {
		var fields []string
		for _, col := range sc {
			fields = append(fields, fmt.Sprintf("%s=%s", col.Name, row.Get(col.Name)))
		}
		rid := ""
		if row.HasRID {
			rid = " @" + row.RID.String()
		}
		fmt.Printf("%3d. %s%s\n", i+1, strings.Join(fields, " "), rid)
	}
}
