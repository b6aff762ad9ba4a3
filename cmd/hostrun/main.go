package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/hostlib/callback"
	"github.com/wippyai/hostlib/conn"
	"github.com/wippyai/hostlib/host"
	"github.com/wippyai/hostlib/status"
)

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		conn.SetLogger(logger)
		host.SetLogger(logger)
		callback.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runDemo(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runDemo walks every subsystem once: glue ops, the managed callback
// registry with its slot-order behavior, and the connection lifecycle.
func runDemo() error {
	lib := host.New()
	defer lib.Close()

	fmt.Println("== glue ==")
	fmt.Printf("add(2, 40)       = %d\n", lib.Add(2, 40))
	fmt.Printf("abs(-7)          = %d\n", lib.Abs(-7))
	fmt.Printf("sqrt(2)          = %.6f\n", lib.Sqrt(2))

	if q, err := lib.Divide(10, 2); err == nil {
		fmt.Printf("divide(10, 2)    = %d\n", q)
	}
	_, err := lib.Divide(10, 0)
	fmt.Printf("divide(10, 0)    -> %s\n", lib.ErrorMessage(int32(status.CodeOf(err))))

	fmt.Println("\n== managed callbacks ==")
	record := func(ctx any, v int32) {
		fmt.Printf("  callback %v fired with %d\n", ctx, v)
	}
	hA, err := lib.RegisterCallback(record, "a")
	if err != nil {
		return err
	}
	if _, err := lib.RegisterCallback(record, "b"); err != nil {
		return err
	}
	if _, err := lib.RegisterCallback(record, "c"); err != nil {
		return err
	}
	fmt.Println("trigger(1) with a, b, c registered:")
	lib.TriggerCallbacks(1)

	lib.UnregisterCallback(hA)
	if _, err := lib.RegisterCallback(record, "d"); err != nil {
		return err
	}
	fmt.Println("trigger(2) after revoking a and registering d (slot order):")
	lib.TriggerCallbacks(2)

	fmt.Println("\n== connection ==")
	db, err := lib.DbOpen("/tmp/demo.db")
	if err != nil {
		return err
	}
	fmt.Printf("db-open          = handle %d\n", db)
	fmt.Printf("execute SELECT 1 -> %s\n", lib.ErrorMessage(int32(lib.DbExecute(db, "SELECT 1"))))
	fmt.Printf("execute DO ERROR -> %s\n", lib.ErrorMessage(int32(lib.DbExecute(db, "DO ERROR"))))
	fmt.Printf("last error       = %q\n", lib.DbLastError(db))
	if err := lib.DbClose(db); err != nil {
		return err
	}
	fmt.Printf("execute after close -> %s\n", lib.ErrorMessage(int32(lib.DbExecute(db, "SELECT 1"))))

	return nil
}
