// Package main load-tests live message delivery: receivers hold WebSocket
// sessions while senders post direct messages over REST.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
)

// Metrics tracks the test results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	MessagesSent         int64
	EventsReceived       int64
	Errors               int64
}

var (
	metrics Metrics

	latencyMu sync.Mutex
	latencies []time.Duration
)

type session struct {
	token  string
	userID uint
}

func main() {
	host := flag.String("host", "localhost:8375", "API server host")
	sender := flag.String("sender", "tom", "Sending account username or email")
	receiver := flag.String("receiver", "", "Receiving account username or email")
	password := flag.String("password", "password123", "Password for both accounts")
	clients := flag.Int("clients", 20, "Concurrent receiver sockets")
	rate := flag.Duration("every", time.Second, "Interval between sent messages")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	flag.Parse()

	if *receiver == "" {
		log.Fatal("-receiver is required")
	}

	api := resty.New().
		SetBaseURL("http://"+*host+"/api").
		SetTimeout(5*time.Second).
		SetHeader("Content-Type", "application/json")

	log.Printf("Starting live delivery test against %s with %d sockets for %v", *host, *clients, *duration)

	from, err := login(api, *sender, *password)
	if err != nil {
		log.Fatalf("Sender login failed: %v", err)
	}
	to, err := login(api, *receiver, *password)
	if err != nil {
		log.Fatalf("Receiver login failed: %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stopChan := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runReceiver(api, *host, to, stopChan, &wg)
		time.Sleep(50 * time.Millisecond) // stagger ticket issuance
	}

	wg.Add(1)
	go runSender(api, from, to.userID, *rate, stopChan, &wg)

	select {
	case <-time.After(*duration):
		log.Println("Test duration reached")
	case <-interrupt:
		log.Println("Interrupted")
	}

	close(stopChan)
	log.Println("Waiting for clients to disconnect...")
	wg.Wait()

	printMetrics()
}

func login(api *resty.Client, usernameOrEmail, password string) (session, error) {
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	resp, err := api.R().
		SetBody(map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}).
		SetResult(&result).
		SetError(&result).
		Post("/auth/login")
	if err != nil {
		return session{}, err
	}
	if resp.IsError() || !result.Success {
		return session{}, fmt.Errorf("login failed with status %d: %s", resp.StatusCode(), result.Message)
	}
	return session{token: result.Token, userID: result.User.ID}, nil
}

func getTicket(api *resty.Client, token string) (string, error) {
	var result struct {
		Ticket string `json:"ticket"`
	}
	resp, err := api.R().
		SetAuthToken(token).
		SetResult(&result).
		Post("/ws/ticket")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("ticket issuance failed with status %d", resp.StatusCode())
	}
	if result.Ticket == "" {
		return "", errors.New("empty ticket")
	}
	return result.Ticket, nil
}

func runSender(api *resty.Client, from session, receiverID uint, every time.Duration, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			sentAt := time.Now().UnixNano()
			resp, err := api.R().
				SetAuthToken(from.token).
				SetBody(map[string]any{
					"receiverId": receiverID,
					"content":    fmt.Sprintf("load test %d", sentAt),
				}).
				Post("/messages")
			if err != nil || resp.IsError() {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			atomic.AddInt64(&metrics.MessagesSent, 1)
		}
	}
}

func runReceiver(api *resty.Client, host string, to session, stopChan <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	ticket, err := getTicket(api, to.token)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}

	u := url.URL{Scheme: "ws", Host: host, Path: "/api/ws", RawQuery: "ticket=" + url.QueryEscape(ticket)}
	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)

	go func() {
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			recordEvent(data)
		}
	}()

	<-stopChan
	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func recordEvent(data []byte) {
	var event struct {
		Type    string `json:"type"`
		Payload struct {
			Content string `json:"content"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &event); err != nil || event.Type != "message_received" {
		return
	}
	atomic.AddInt64(&metrics.EventsReceived, 1)

	var sentAt int64
	if _, err := fmt.Sscanf(event.Payload.Content, "load test %d", &sentAt); err == nil {
		latencyMu.Lock()
		latencies = append(latencies, time.Since(time.Unix(0, sentAt)))
		latencyMu.Unlock()
	}
}

func printMetrics() {
	log.Println("Test Results")
	log.Println("===============")
	log.Printf("Connections Attempted: %d", atomic.LoadInt64(&metrics.ConnectionsAttempted))
	log.Printf("Connections Successful: %d", atomic.LoadInt64(&metrics.ConnectionsSuccess))
	log.Printf("Connections Failed: %d", atomic.LoadInt64(&metrics.ConnectionsFailed))
	log.Printf("Messages Sent: %d", atomic.LoadInt64(&metrics.MessagesSent))
	log.Printf("Live Events Received: %d", atomic.LoadInt64(&metrics.EventsReceived))
	log.Printf("Total Errors: %d", atomic.LoadInt64(&metrics.Errors))

	latencyMu.Lock()
	defer latencyMu.Unlock()
	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	log.Printf("Push latency p50=%v p95=%v max=%v",
		latencies[len(latencies)/2],
		latencies[len(latencies)*95/100],
		latencies[len(latencies)-1])
}
