// interviewctl drives a full interview session against a running server from
// the terminal: typed lines stand in for the live transcript, an empty line
// ends the current answer early.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/driver"
)

var defaultQuestions = []driver.Question{
	{Text: "Tell me about yourself and your professional background.", TimeLimit: 120 * time.Second},
	{Text: "What interests you most about this position?", TimeLimit: 90 * time.Second},
	{Text: "Describe a challenging project you've worked on.", TimeLimit: 120 * time.Second},
}

// stdinTranscript feeds typed lines to the driver as final transcript
// segments. An empty line signals the end of the current answer.
type stdinTranscript struct {
	segments chan driver.Segment
	onBreak  func()
	done     chan struct{}
}

func newStdinTranscript(onBreak func()) *stdinTranscript {
	t := &stdinTranscript{
		segments: make(chan driver.Segment),
		onBreak:  onBreak,
		done:     make(chan struct{}),
	}
	go t.read()
	return t
}

func (t *stdinTranscript) read() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			t.onBreak()
			continue
		}
		select {
		case t.segments <- driver.Segment{Text: line, Final: true}:
		case <-t.done:
			return
		}
	}
	close(t.segments)
}

func (t *stdinTranscript) Segments() <-chan driver.Segment { return t.segments }

func (t *stdinTranscript) Stop() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}

// staticPresence reports the candidate as always present; there is no camera
// in a terminal session.
type staticPresence struct {
	updates chan bool
}

func newStaticPresence() *staticPresence {
	p := &staticPresence{updates: make(chan bool, 1)}
	p.updates <- true
	return p
}

func (p *staticPresence) Updates() <-chan bool { return p.updates }
func (p *staticPresence) Stop()                {}

func main() {
	server := flag.String("server", "http://localhost:8080", "interview service base URL")
	name := flag.String("name", "", "candidate name")
	email := flag.String("email", "", "candidate email")
	token := flag.String("token", "", "bearer token, if the server requires auth")
	flag.Parse()

	if *name == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: interviewctl -name <name> -email <email> [-server url] [-token jwt]")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	api := driver.NewAPIClient(*server, *token)

	var d *driver.Driver
	transcripts := newStdinTranscript(func() { d.StopAnswer() })
	presence := newStaticPresence()

	d = driver.New(api, transcripts, presence, defaultQuestions, logger)
	d.SetNotify(func(ev driver.Event) {
		switch ev.State {
		case driver.StateCapturing:
			fmt.Printf("\nQuestion %d: %s\n", ev.QuestionIndex+1, ev.Question)
			fmt.Println("(type your answer, empty line to finish)")
		case driver.StateAwaitingScore:
			fmt.Println("submitting answer...")
		case driver.StateEnded:
			fmt.Println("\nwrapping up the interview...")
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		cancel()
	}()

	session, err := d.Run(ctx, *name, *email)
	if err != nil {
		logger.Fatal("interview session failed", zap.Error(err))
	}

	fmt.Printf("\nInterview %s completed with %d answers.\n", session.ID.Hex(), len(session.Answers))
	if session.Feedback != nil {
		fmt.Printf("Overall score: %.1f/10\n", session.Feedback.OverallScore)
		for _, s := range session.Feedback.Strengths {
			fmt.Printf("  + %s\n", s)
		}
		for _, s := range session.Feedback.Improvements {
			fmt.Printf("  - %s\n", s)
		}
	}
	if cached := d.CachedAnswers(); len(cached) > 0 {
		fmt.Printf("%d answer(s) could not be submitted and were kept locally.\n", len(cached))
	}
}
