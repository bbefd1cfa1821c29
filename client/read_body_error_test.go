package client

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, errors.New("read err") }

func TestReadResponseBody_Error(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(errReader{})}
	if _, err := readResponseBody(resp); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadResponseBodyWithProgress(t *testing.T) {
	payload := `{"elements":[]}`
	resp := &http.Response{Body: io.NopCloser(strings.NewReader(payload)), ContentLength: int64(len(payload))}
	var bar bytes.Buffer
	body, err := readResponseBodyWithProgress(resp, &bar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != payload {
		t.Fatalf("body = %q, want %q", body, payload)
	}

	resp = &http.Response{Body: io.NopCloser(errReader{}), ContentLength: -1}
	if _, err := readResponseBodyWithProgress(resp, io.Discard); err == nil {
		t.Fatalf("expected error with unknown length")
	}
}
