package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"goal-planner/planner-service/logging"
	"goal-planner/planner-service/models"

	"github.com/sony/gobreaker"
)

// Client priča sa lokalnim Ollama runtime-om preko /api/chat endpointa.
// Svi pozivi idu kroz circuit breaker da jedan zaglavljeni model ne povuče
// ceo servis za sobom.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(baseURL, model string, breaker *gobreaker.CircuitBreaker) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			// Bez globalnog timeout-a: streaming odgovori traju koliko traju,
			// prekid ide preko context-a pozivaoca.
			Timeout: 0,
		},
		breaker: breaker,
	}
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Think    bool                 `json:"think,omitempty"`
}

type chatChunk struct {
	Message models.ChatMessage `json:"message"`
	Done    bool               `json:"done"`
	Error   string             `json:"error,omitempty"`
}

// streamAbortedError označava da je potrošač stream-a (sink) prekinuo čitanje,
// npr. klijent je zatvorio SSE konekciju. To nije greška Ollame i ne sme da
// se računa u circuit breaker statistiku.
type streamAbortedError struct {
	err error
}

func (e *streamAbortedError) Error() string {
	return fmt.Sprintf("stream consumer aborted: %v", e.err)
}

func (e *streamAbortedError) Unwrap() error {
	return e.err
}

// Complete šalje razgovor modelu i blokira dok ne stigne kompletan odgovor.
// systemPrompt se, ako postoji, ubacuje kao prva poruka.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking bool) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.send(ctx, messages, systemPrompt, thinking, false)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var chunk chatChunk
		if err := json.NewDecoder(resp.Body).Decode(&chunk); err != nil {
			return nil, fmt.Errorf("failed to decode ollama response: %w", err)
		}
		if chunk.Error != "" {
			return nil, fmt.Errorf("ollama returned an error: %s", chunk.Error)
		}
		return chunk.Message.Content, nil
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: OLLAMA_COMPLETE_FAILED, Description: Chat completion failed: %v", err)
		return "", err
	}
	return result.(string), nil
}

// CompleteStream šalje razgovor modelu sa stream:true, prosleđuje svaki delta
// sink-u i na kraju vraća ceo akumulirani tekst. Greška iz sink-a prekida
// stream.
func (c *Client) CompleteStream(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking bool, sink func(chunk string) error) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.send(ctx, messages, systemPrompt, thinking, true)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var full bytes.Buffer
		decoder := json.NewDecoder(resp.Body)
		for {
			var chunk chatChunk
			if err := decoder.Decode(&chunk); err == io.EOF {
				break
			} else if err != nil {
				return nil, fmt.Errorf("failed to decode ollama stream chunk: %w", err)
			}
			if chunk.Error != "" {
				return nil, fmt.Errorf("ollama returned an error: %s", chunk.Error)
			}
			if chunk.Message.Content != "" {
				full.WriteString(chunk.Message.Content)
				if err := sink(chunk.Message.Content); err != nil {
					return nil, &streamAbortedError{err: err}
				}
			}
			if chunk.Done {
				break
			}
		}
		return full.String(), nil
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: OLLAMA_STREAM_FAILED, Description: Streaming chat completion failed: %v", err)
		return "", err
	}
	return result.(string), nil
}

func (c *Client) send(ctx context.Context, messages []models.ChatMessage, systemPrompt string, thinking, stream bool) (*http.Response, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: stream,
		Think:  thinking,
	}
	if systemPrompt != "" {
		payload.Messages = append(payload.Messages, models.ChatMessage{Role: "system", Content: systemPrompt})
	}
	payload.Messages = append(payload.Messages, messages...)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(msg))
	}
	return resp, nil
}

// NewBreaker pravi circuit breaker za pozive ka Ollama runtime-u: otvara se
// posle uzastopnih grešaka, promene stanja se loguju. Prekid stream-a od
// strane klijenta i otkazan context se ne računaju kao pad Ollame.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var aborted *streamAbortedError
			return errors.As(err, &aborted) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}
