package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// longPollSeconds is passed to getUpdates; the HTTP client timeout must
// stay above it.
const longPollSeconds = 30

// API is a minimal Telegram Bot API client covering the methods the bot
// actually uses. Requests go straight to the HTTP API; responses decode
// into the typed structs in types.go.
type API struct {
	token   string
	apiBase string
	client  *http.Client
}

// NewAPI creates an API client for the given bot token.
func NewAPI(token string) *API {
	return &API{
		token:   token,
		apiBase: defaultAPIBase,
		// Must outlast both the getUpdates long poll and audio uploads.
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (a *API) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", a.apiBase, a.token, method)
}

// GetUpdates long-polls for new updates starting at offset.
func (a *API) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.methodURL("getUpdates"), nil)
	if err != nil {
		return nil, err
	}
	query := req.URL.Query()
	query.Set("timeout", strconv.Itoa(longPollSeconds))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	req.URL.RawQuery = query.Encode()

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getUpdates failed: %s", resp.Status)
	}

	var data getUpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if !data.OK {
		return nil, fmt.Errorf("getUpdates error: %s", data.Description)
	}
	return data.Result, nil
}

// SendMessage posts a text message, optionally with an inline keyboard,
// and returns the sent message's ID.
func (a *API) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (int, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}

	var data sendMessageResponse
	if err := a.postJSON(ctx, "sendMessage", payload, &data); err != nil {
		return 0, err
	}
	if !data.OK {
		return 0, fmt.Errorf("sendMessage error: %s", data.Description)
	}
	return data.Result.MessageID, nil
}

// EditMessageText replaces the text (and keyboard) of an existing message.
func (a *API) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}

	var data apiResponse
	if err := a.postJSON(ctx, "editMessageText", payload, &data); err != nil {
		return err
	}
	if !data.OK {
		return fmt.Errorf("editMessageText error: %s", data.Description)
	}
	return nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing a spinner.
func (a *API) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	var data apiResponse
	if err := a.postJSON(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID}, &data); err != nil {
		return err
	}
	if !data.OK {
		return fmt.Errorf("answerCallbackQuery error: %s", data.Description)
	}
	return nil
}

// DeleteMessage removes a previously sent message. Failures are returned
// but normally just logged; a stale status message is cosmetic.
func (a *API) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	var data apiResponse
	payload := map[string]any{"chat_id": chatID, "message_id": messageID}
	if err := a.postJSON(ctx, "deleteMessage", payload, &data); err != nil {
		return err
	}
	if !data.OK {
		return fmt.Errorf("deleteMessage error: %s", data.Description)
	}
	return nil
}

// AudioUpload describes a local MP3 to deliver via sendAudio.
type AudioUpload struct {
	Path      string
	FileName  string
	Caption   string
	Title     string
	Performer string
	Duration  int
}

// SendAudio uploads the file as an audio message. Telegram reads the
// title/performer/duration fields for its player UI independently of the
// embedded ID3 tags.
func (a *API) SendAudio(ctx context.Context, chatID int64, upload AudioUpload) error {
	file, err := os.Open(upload.Path)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"chat_id":   strconv.FormatInt(chatID, 10),
		"caption":   upload.Caption,
		"title":     upload.Title,
		"performer": upload.Performer,
	}
	if upload.Duration > 0 {
		fields["duration"] = strconv.Itoa(upload.Duration)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return err
		}
	}

	part, err := writer.CreateFormFile("audio", upload.FileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.methodURL("sendAudio"), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sendAudio failed: %s", resp.Status)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return err
	}
	if !data.OK {
		return fmt.Errorf("sendAudio error: %s", data.Description)
	}
	return nil
}

func (a *API) postJSON(ctx context.Context, method string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.methodURL(method), bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
