// Command turndump prints a match turn log, one line per turn.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nstehr/rampart/turnlog"
)

func main() {
	dir := flag.String("dir", "", "turn log directory (with -match)")
	match := flag.String("match", "", "match ID to read from -dir")
	asJSON := flag.Bool("json", false, "print raw JSON entries")
	cmds := flag.Bool("commands", false, "print each command under its turn")
	flag.Parse()

	path := flag.Arg(0)
	if *match != "" {
		path = turnlog.Path(*dir, *match)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: turndump [-json] [-commands] <file.jsonl.zst> | -dir DIR -match ID")
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	err := turnlog.ReadFile(path, func(e turnlog.Entry) error {
		if *asJSON {
			return enc.Encode(e)
		}
		fmt.Println(formatEntry(e))
		if *cmds {
			for _, c := range e.Commands {
				fmt.Printf("    %s %s\n", c.Type, c.Data)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "turndump:", err)
		os.Exit(1)
	}
}

func formatEntry(e turnlog.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "turn %4d  %-5s balance=%-5d ring=%d/%d commands=%d",
		e.Turn, e.Mode, e.Balance, e.RingTotal-e.Pending, e.RingTotal, len(e.Commands))
	if e.Rule != "" {
		fmt.Fprintf(&b, " rule=%s", e.Rule)
	}
	for _, ev := range e.Events {
		fmt.Fprintf(&b, " [%s]", ev)
	}
	return b.String()
}
