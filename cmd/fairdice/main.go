// Command fairdice plays the provably-fair dice duel on the console.
//
// Usage:
//
//	fairdice 2,2,4,4,9,9 1,1,6,6,8,8 3,3,5,5,7,7
//
// Every random decision is a commit-reveal round: the program publishes
// HMAC=<commitment> before asking for your number and KEY=<hex> after, so
// you can recompute the HMAC and confirm it never changed its value.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fairdice/internal/dice"
	"fairdice/internal/game"
)

func main() {
	set, err := dice.ParseSet(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "usage: %s <die> <die> <die> [die...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       each die is six comma-separated integers, e.g. 2,2,4,4,9,9\n")
		os.Exit(1)
	}

	match, err := game.NewMatch(set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out, err := match.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		show(out)
		if out.Done {
			return
		}

		ev, ok := read(scanner)
		if !ok {
			// EOF counts as walking away from the table.
			ev = game.CancelEvent{}
		}

		next, err := match.Step(ev)
		switch {
		case errors.Is(err, game.ErrInvalidInput):
			fmt.Println("Try again: enter a number from the prompt, ? for help, x to exit.")
			continue
		case err != nil:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		out = next
	}
}

func show(out game.Output) {
	for _, line := range out.Lines {
		fmt.Println(line)
	}
	if out.Prompt != "" {
		fmt.Print(out.Prompt + " ")
	}
}

func read(scanner *bufio.Scanner) (game.Event, bool) {
	if !scanner.Scan() {
		return nil, false
	}

	switch s := strings.TrimSpace(strings.ToLower(scanner.Text())); s {
	case "?", "help":
		return game.HelpEvent{}, true
	case "x", "q", "exit":
		return game.CancelEvent{}, true
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			// Let the engine reject it so the prompt repeats.
			return game.NumberEvent{N: -1}, true
		}
		return game.NumberEvent{N: n}, true
	}
}
