package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"docqa/internal/tui"
)

func main() {
	var addr string
	flag.StringVar(&addr, "server", "http://localhost:8000", "Base URL of the docqa server")
	flag.Parse()

	m := tui.New(tui.NewClient(addr))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
