package model

import "strings"

// StreamAccumulator accumulates streaming chunks into a complete response.
// It stops accepting content once a terminal finish reason ("stop" or
// "length") has been observed; chunks added after that point are discarded.
type StreamAccumulator struct {
	content strings.Builder
	role    string
	usage   *Usage
	done    bool
}

// NewStreamAccumulator creates a new accumulator for streaming responses.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{}
}

// Add processes a streaming chunk and accumulates its contents.
// It returns true once a terminal finish reason has been observed.
func (a *StreamAccumulator) Add(chunk StreamChunk) bool {
	if a.done {
		return true
	}

	// Usage arrives on the final chunk, which may carry no choices.
	if chunk.Usage != nil {
		a.usage = chunk.Usage
	}

	if len(chunk.Choices) == 0 {
		return false
	}

	choice := chunk.Choices[0]

	if reason := choice.FinishReason; reason != nil {
		switch *reason {
		case FinishReasonStop, FinishReasonLength:
			a.done = true
			return true
		}
	}

	delta := choice.Delta

	// Role usually arrives only in the first chunk
	if delta.Role != "" {
		a.role = delta.Role
	}

	if delta.Content != "" {
		a.content.WriteString(delta.Content)
	}

	return false
}

// Done reports whether a terminal finish reason has been observed.
func (a *StreamAccumulator) Done() bool {
	return a.done
}

// Content returns the accumulated text content.
func (a *StreamAccumulator) Content() string {
	return a.content.String()
}

// Message returns the accumulated message.
func (a *StreamAccumulator) Message() Message {
	return Message{
		Role:    a.role,
		Content: a.content.String(),
	}
}

// Usage returns the usage information from the final chunk, if any.
func (a *StreamAccumulator) Usage() *Usage {
	return a.usage
}

// Reset clears the accumulator for reuse.
func (a *StreamAccumulator) Reset() {
	a.content.Reset()
	a.role = ""
	a.usage = nil
	a.done = false
}

// Drain consumes a chunk/error channel pair from ChatCompletionStream and
// returns the concatenated content. Consumption halts as soon as a terminal
// finish reason is observed; anything still queued is discarded. An error from
// the stream discards all partial content so a retried attempt starts clean.
func Drain(chunks <-chan StreamChunk, errs <-chan error) (string, error) {
	acc := NewStreamAccumulator()

	for chunk := range chunks {
		if acc.Add(chunk) {
			// Unblock the producer; nothing past the terminal chunk is kept.
			go func() {
				for range chunks {
				}
			}()
			break
		}
	}

	if err := <-errs; err != nil {
		return "", err
	}

	return acc.Content(), nil
}
