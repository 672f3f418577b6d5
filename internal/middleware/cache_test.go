package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriterWithinLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 16}

	_, err := cw.Write([]byte("0123456789abcdef")) // exactly the limit
	require.NoError(t, err)

	assert.False(t, cw.truncated())
	assert.Equal(t, "0123456789abcdef", cw.buf.String())
	assert.Equal(t, "0123456789abcdef", rec.Body.String())
}

func TestCaptureWriterTruncatesBufferNotClient(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	for _, chunk := range []string{"0123", "4567", "89ab"} {
		_, err := cw.Write([]byte(chunk))
		require.NoError(t, err)
	}

	// The client sees the full body; the capture buffer is capped and the
	// overflow is flagged so the payload is never stored.
	assert.Equal(t, "0123456789ab", rec.Body.String())
	assert.Equal(t, "01234567", cw.buf.String())
	assert.True(t, cw.truncated())
}

func TestCaptureWriterNoLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 0}

	_, err := cw.Write([]byte(strings.Repeat("x", 4096)))
	require.NoError(t, err)
	assert.False(t, cw.truncated())
	assert.Equal(t, 4096, cw.buf.Len())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Total": {"3"}}
	body := []byte(`[{"id":1}]`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short"), {0, 0, 0, 200, 0, 0, 0, 99}} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok, "payload=%v", bs)
	}
}
