package generation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaign-studio/internal/model"
)

var sample = model.Campaign{
	Brand:        "EcoWear",
	CampaignName: "Summer",
	Description:  "Recycled summer line",
	Target:       "Young adults",
	Topic:        "Product Launch",
	Tone:         "casual",
}

type fakeAPI struct {
	captionStatus int
	captionBody   string
	imageStatus   int
	imageBody     string

	chat  chatRequest
	image imageRequest
	auth  string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/completions", func(w http.ResponseWriter, r *http.Request) {
		f.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.chat))
		w.WriteHeader(f.captionStatus)
		_, _ = w.Write([]byte(f.captionBody))
	})
	mux.HandleFunc("POST /images/generations", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.image))
		w.WriteHeader(f.imageStatus)
		_, _ = w.Write([]byte(f.imageBody))
	})
	return mux
}

const (
	okCaption = `{"choices":[{"message":{"role":"assistant","content":"  Summer is here! #EcoWear  "}}]}`
	okImage   = `{"data":[{"url":"https://img.example/1.png"}]}`
)

func newTestClient(t *testing.T, f *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
}

func TestGenerateCaption(t *testing.T) {
	f := &fakeAPI{captionStatus: http.StatusOK, captionBody: okCaption}
	c := newTestClient(t, f)

	res := c.GenerateCaption(t.Context(), sample)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Summer is here! #EcoWear", res.Caption)

	assert.Equal(t, "Bearer sk-test", f.auth)
	assert.Equal(t, CaptionModel, f.chat.Model)
	assert.Equal(t, 500, f.chat.MaxTokens)
	assert.InDelta(t, 0.7, f.chat.Temperature, 1e-9)
	require.Len(t, f.chat.Messages, 2)
	assert.Equal(t, "system", f.chat.Messages[0].Role)
	assert.Contains(t, f.chat.Messages[1].Content, "EcoWear")
	assert.Contains(t, f.chat.Messages[1].Content, "casual")
}

func TestGenerateImage(t *testing.T) {
	f := &fakeAPI{imageStatus: http.StatusOK, imageBody: okImage}
	c := newTestClient(t, f)

	res := c.GenerateImage(t.Context(), sample)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "https://img.example/1.png", res.ImageURL)
	assert.Equal(t, imageRequest{Model: ImageModel, Prompt: f.image.Prompt, Size: "1024x1024", Quality: "standard", N: 1}, f.image)
	assert.Contains(t, f.image.Prompt, "relaxed")
}

func TestGenerateContent(t *testing.T) {
	cases := []struct {
		name    string
		api     fakeAPI
		success bool
		err     string
	}{
		{
			name:    "both succeed",
			api:     fakeAPI{captionStatus: 200, captionBody: okCaption, imageStatus: 200, imageBody: okImage},
			success: true,
		},
		{
			name: "caption error wins",
			api: fakeAPI{
				captionStatus: 429, captionBody: `{"error":{"message":"Rate limit reached"}}`,
				imageStatus: 400, imageBody: `{"error":{"message":"Prompt rejected"}}`,
			},
			err: "Rate limit reached",
		},
		{
			name: "image error surfaced",
			api:  fakeAPI{captionStatus: 200, captionBody: okCaption, imageStatus: 400, imageBody: `{"error":{"message":"Prompt rejected"}}`},
			err:  "Prompt rejected",
		},
		{
			name: "generic message without upstream detail",
			api:  fakeAPI{captionStatus: 500, captionBody: `oops`, imageStatus: 200, imageBody: okImage},
			err:  msgCaptionFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.api
			c := newTestClient(t, &f)

			res := c.GenerateContent(t.Context(), sample)
			assert.Equal(t, tc.success, res.Success)
			assert.Equal(t, tc.err, res.Error)
			if tc.success {
				require.NotNil(t, res.Data)
				assert.Equal(t, "Summer is here! #EcoWear", res.Data.Caption)
				assert.Equal(t, "https://img.example/1.png", res.Data.Image)
			}
		})
	}
}

func TestEnhanceCaption(t *testing.T) {
	f := &fakeAPI{captionStatus: http.StatusOK, captionBody: okCaption}
	c := newTestClient(t, f)

	res := c.EnhanceCaption(t.Context(), "old caption")
	require.True(t, res.Success)
	assert.Equal(t, "Summer is here! #EcoWear", res.Enhanced)
	assert.Contains(t, f.chat.Messages[1].Content, `"old caption"`)
}

func TestUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})

	res := c.EnhanceCaption(t.Context(), "x")
	assert.False(t, res.Success)
	assert.Equal(t, msgEnhanceFailed, res.Error)
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("Hi {name}, {missing} stays", map[string]string{"name": "Ann"})
	assert.Equal(t, "Hi Ann, {missing} stays", got)

	p := ImagePrompt(model.Campaign{Brand: "B", Tone: "unknown"})
	assert.True(t, strings.Contains(p, "professional, high quality"))
}
