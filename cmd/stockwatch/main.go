// cmd/stockwatch/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"stocksync/internal/api"
	"stocksync/internal/client"
	"stocksync/internal/config"
	"stocksync/internal/inventory"
	"stocksync/internal/logger"
	"stocksync/internal/notify"
)

func main() {
	config.LoadEnv()
	config.ConfigurePaths()

	if err := logger.SetupLogger(logger.Config{ConsoleOnly: true, TimeZone: os.Getenv("TIME_ZONE")}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	config.LoadSyncConfig()

	username := os.Getenv("STOCKSYNC_USER")
	password := os.Getenv("STOCKSYNC_PASSWORD")
	if username == "" || password == "" {
		logger.LogFatal("STOCKSYNC_USER and STOCKSYNC_PASSWORD must be set")
	}

	apiClient, err := api.NewClient(config.ServerBaseURL())
	if err != nil {
		logger.LogFatal("Failed to build API client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := apiClient.Login(ctx, username, password); err != nil {
		logger.LogFatal("Login failed: %v", err)
	}

	view := &termView{out: os.Stdout}
	core := client.NewCore(apiClient, view, config.PollInterval)

	go core.RunSync(ctx)

	repl(ctx, core)
}

// repl maps terminal commands onto the core's operations. Item names may
// contain spaces; `set` takes the quantity as the last token and `new`
// separates its fields with '|'.
func repl(ctx context.Context, core *client.Core) {
	fmt.Println(`Commands: show | inc NAME | dec NAME | set NAME QTY | edit NAME | type VALUE | save | cancel | new NAME|QTY|UNIT | report | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		var err error
		switch cmd {
		case "show":
			snap := core.Snapshot()
			printSnapshot(os.Stdout, snap)
			printAlert(os.Stdout, core.Alert())
		case "inc":
			err = core.Increment(ctx, rest)
		case "dec":
			err = core.Decrement(ctx, rest)
		case "set":
			name, qty, ok := splitLastField(rest)
			if !ok {
				err = fmt.Errorf("usage: set NAME QTY")
				break
			}
			var value int
			if _, convErr := fmt.Sscanf(qty, "%d", &value); convErr != nil {
				err = fmt.Errorf("usage: set NAME QTY")
				break
			}
			err = core.SetAbsolute(ctx, name, value)
		case "edit":
			err = core.OpenEdit(rest)
		case "type":
			err = core.SetPending(rest)
		case "save":
			if err = core.CommitEdit(ctx); err != nil {
				// Session stays open; the rejection is local feedback only.
				fmt.Printf("quantidade inválida, sessão continua aberta\n")
				err = nil
			}
		case "cancel":
			core.CancelEdit()
		case "new":
			parts := strings.SplitN(rest, "|", 3)
			if len(parts) != 3 {
				err = fmt.Errorf("usage: new NAME|QTY|UNIT")
				break
			}
			err = core.CreateItem(ctx, parts[0], parts[1], parts[2])
		case "report":
			err = downloadReport(ctx, core)
		case "quit", "exit":
			return
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}

		if err != nil {
			fmt.Printf("erro: %v\n", err)
		}
	}
}

func downloadReport(ctx context.Context, core *client.Core) error {
	filename, blob, err := core.DownloadReport(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(config.ReportDir, 0775); err != nil {
		return err
	}
	path := filepath.Join(config.ReportDir, filename)
	if err := os.WriteFile(path, blob, 0664); err != nil {
		return err
	}
	fmt.Printf("relatório salvo em %s\n", path)
	return nil
}

// splitLastField separates "Cerveja Lata 12" into ("Cerveja Lata", "12").
func splitLastField(s string) (string, string, bool) {
	idx := strings.LastIndex(s, " ")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), s[idx+1:], true
}

// termView renders the published state to the terminal. It repaints only
// when something actually changed; reprinting an identical table on every
// poll tick is useless in a terminal.
type termView struct {
	mu        sync.Mutex
	out       *os.File
	lastTable string
	lastAlert string
}

func (v *termView) RenderInventory(snap inventory.Snapshot) {
	var b strings.Builder
	printSnapshot(&b, snap)

	v.mu.Lock()
	defer v.mu.Unlock()
	if b.String() == v.lastTable {
		return
	}
	v.lastTable = b.String()
	fmt.Fprint(v.out, v.lastTable)
}

func (v *termView) RenderAlert(alert *notify.Alert) {
	var b strings.Builder
	printAlert(&b, alert)

	v.mu.Lock()
	defer v.mu.Unlock()
	if b.String() == v.lastAlert {
		return
	}
	v.lastAlert = b.String()
	fmt.Fprint(v.out, v.lastAlert)
}

func (v *termView) RenderEditSession(state client.EditState) {
	if state.Open {
		fmt.Fprintf(v.out, "[editando %s: %s]\n", state.Target, state.Pending)
	}
}

func printSnapshot(w io.Writer, snap inventory.Snapshot) {
	fmt.Fprintf(w, "---- estoque (%d itens) ----\n", len(snap.Items))
	for _, item := range snap.Items {
		marker := "  "
		if item.Quantity <= inventory.LowStockThreshold {
			marker = "! "
		}
		fmt.Fprintf(w, "%s%-25s %5d %s\n", marker, item.Name, item.Quantity, item.Unit)
	}
}

func printAlert(w io.Writer, alert *notify.Alert) {
	if alert == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", alert.Title, alert.Message)
}
