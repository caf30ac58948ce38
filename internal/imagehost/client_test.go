package imagehost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantURL string
		wantErr error
	}{
		{
			name:    "success",
			status:  http.StatusOK,
			body:    `{"success":true,"status":200,"data":{"url":"https://i.example.org/abc.png"}}`,
			wantURL: "https://i.example.org/abc.png",
		},
		{
			name:    "rejected",
			status:  http.StatusBadRequest,
			body:    `{"success":false,"status":400,"error":{"message":"Invalid API v1 key."}}`,
			wantErr: ErrUpload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "secret", r.URL.Query().Get("key"))

				f, hdr, err := r.FormFile("image")
				require.NoError(t, err)
				defer f.Close()
				data, _ := io.ReadAll(f)
				assert.Equal(t, "icon.png", hdr.Filename)
				assert.Equal(t, "PNGDATA", string(data))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "secret", time.Second)
			got, err := c.Upload(context.Background(), "icon.png", strings.NewReader("PNGDATA"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, got)
		})
	}
}
