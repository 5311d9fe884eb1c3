// taskmcp runs the task tracker as an MCP server over stdio, so any
// AI chat client can manage tasks through tool calls.
//
// Usage:
//
//	taskmcp            # persistent store from DATABASE_URL (default tasktracker.db)
//	taskmcp -ephemeral # in-memory store, tasks vanish on exit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/viper"

	"tasktracker/internal/chat"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

func main() {
	ephemeral := flag.Bool("ephemeral", false, "keep tasks in memory only")
	flag.Parse()

	// Logs go to stderr so they cannot corrupt the stdio transport.
	log.SetOutput(os.Stderr)

	if err := run(*ephemeral); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ephemeral bool) error {
	var repo service.TaskRepository
	if ephemeral {
		repo = repository.NewMemoryTaskRepository()
	} else {
		v := viper.New()
		v.AutomaticEnv()
		v.SetDefault("DATABASE_URL", "tasktracker.db")
		db, err := repository.NewDB(v.GetString("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		repo = repository.NewTaskRepository(db)
	}

	engine := service.NewEngine(repo)
	reminders := service.NewReminderService(repo, service.DefaultDueSoonWindow)

	s := chat.NewServer(engine, reminders)
	return server.ServeStdio(s)
}
