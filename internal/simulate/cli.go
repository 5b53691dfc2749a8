package simulate

import "fmt"

// ShowHelp prints command usage.
func ShowHelp() {
	fmt.Println(`squad-sim - synthetic squad generator for the readiness service

Usage:
  squad-sim [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -athletes int      Squad size (default 12)
  -days int          Days of history before today (default 28)
  -workers int       Concurrent submitters (default 2 x NumCPU)
  -seed uint         Generator seed (default 1)
  -date string       Scoring day, YYYY-MM-DD (default today, UTC)
  -timeout duration  HTTP request timeout (default 10s)
  -verbose           Log every failed request
  -help              Show this help

Profiles cycle through steady, fatigued, sore and sleepless athletes. The
sleepless profile trains hard the day before a short night.`)
}
