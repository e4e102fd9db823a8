package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/scrollshot/scrollshot/internal/database"
)

func main() {
	dbPath := flag.String("db", "scrollshot.db", "Path to the capture history database")
	limit := flag.Int("limit", 20, "Number of recent sessions to show")
	flag.Parse()

	db, err := database.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	records, err := db.GetRecentSessions(*limit)
	if err != nil {
		log.Fatalf("Failed to read history: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No capture sessions recorded yet.")
		return
	}

	for _, r := range records {
		line := fmt.Sprintf("#%d %s %s", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Status)
		if r.StopReason != nil {
			line += fmt.Sprintf(" (%s)", *r.StopReason)
		}
		if r.Status == "completed" {
			line += fmt.Sprintf(" frames=%d/%d height=%dpx", r.UsedFrames, r.TotalFrames, r.FinalHeight)
			if r.OutputPath != nil {
				line += " " + *r.OutputPath
			}
		}
		if r.ErrorMessage != nil {
			line += " error=" + *r.ErrorMessage
		}
		if r.DurationSeconds != nil {
			line += fmt.Sprintf(" (%ds)", *r.DurationSeconds)
		}
		fmt.Println(line)
	}
}
