package bot

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"saavnbot/internal/model"
	"saavnbot/internal/pipeline"
	"saavnbot/internal/saavn"
)

const startText = `Hi! I can find songs and send them to you as MP3s.

Send me a song name to search, or use /search <name>.`

const helpText = `Commands:
/search <name> - search the catalog
/help - this message
/about - about this bot

You can also just send a song name as a plain message.`

const aboutText = `I search a music catalog, convert the best available stream to MP3, tag it, and send it over. Artwork and metadata come straight from the catalog.`

// Bot wires Telegram updates to catalog searches and download runs.
//
// Downloads are serialized per chat: a second request from the same chat
// while one is running is rejected with a busy notice, while different
// chats download in parallel.
type Bot struct {
	api         *API
	catalog     *saavn.Client
	pipe        *pipeline.Pipeline
	sessions    *sessionStore
	searchLimit int
	log         *zap.SugaredLogger

	busyMu sync.Mutex
	busy   map[int64]bool
}

// New creates a Bot. searchLimit caps how many results one search shows.
func New(api *API, catalog *saavn.Client, pipe *pipeline.Pipeline, searchLimit int, log *zap.SugaredLogger) *Bot {
	return &Bot{
		api:         api,
		catalog:     catalog,
		pipe:        pipe,
		sessions:    newSessionStore(sessionTTL, maxSessions),
		searchLimit: searchLimit,
		log:         log,
		busy:        make(map[int64]bool),
	}
}

// Run long-polls for updates until ctx is cancelled. Poll failures are
// logged and retried; only cancellation ends the loop.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Infow("bot polling started")
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.api.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warnw("getUpdates failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	command, args, isCommand := parseCommand(text)
	if !isCommand {
		b.handleSearch(ctx, chatID, text)
		return
	}

	switch command {
	case "start":
		b.reply(ctx, chatID, startText)
	case "help":
		b.reply(ctx, chatID, helpText)
	case "about":
		b.reply(ctx, chatID, aboutText)
	case "search":
		if len(args) == 0 {
			b.reply(ctx, chatID, "Usage: /search <song name>")
			return
		}
		b.handleSearch(ctx, chatID, strings.Join(args, " "))
	default:
		b.reply(ctx, chatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, query string) {
	songs, err := b.catalog.SearchSongs(ctx, query, 1, b.searchLimit)
	if err != nil {
		b.log.Errorw("search failed", "chat", chatID, "query", query, "error", err)
		b.reply(ctx, chatID, pipeline.UserMessage(err))
		return
	}
	if len(songs) == 0 {
		b.reply(ctx, chatID, fmt.Sprintf("No songs found for %q. Try different keywords.", query))
		return
	}

	b.sessions.put(chatID, songs)
	markup := resultsKeyboard(len(songs))
	if _, err := b.api.SendMessage(ctx, chatID, formatResults(query, songs), &markup); err != nil {
		b.log.Errorw("send results failed", "chat", chatID, "error", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if err := b.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		b.log.Warnw("answerCallbackQuery failed", "error", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	action, err := parseCallback(cb.Data)
	if err != nil {
		b.log.Warnw("unparseable callback", "chat", chatID, "data", cb.Data)
		return
	}

	switch action.kind {
	case callbackCancel:
		b.sessions.clear(chatID)
		b.edit(ctx, chatID, messageID, "Cancelled.", nil)

	case callbackSearchAgain:
		b.sessions.clear(chatID)
		b.edit(ctx, chatID, messageID, "Send me a song name to search.", nil)

	case callbackSelect:
		b.handleSelect(ctx, chatID, messageID, action.index)

	case callbackDownload:
		b.handleDownload(ctx, chatID, messageID, action.songID, action.bitrate)
	}
}

func (b *Bot) handleSelect(ctx context.Context, chatID int64, messageID, index int) {
	songs, ok := b.sessions.get(chatID)
	if !ok {
		b.edit(ctx, chatID, messageID, "This search has expired. Send a new song name.", nil)
		return
	}
	if index >= len(songs) {
		return
	}
	summary := songs[index]

	detail, err := b.catalog.GetSong(ctx, summary.ID)
	if err != nil {
		b.log.Errorw("song lookup failed", "chat", chatID, "song", summary.ID, "error", err)
		b.edit(ctx, chatID, messageID, pipeline.UserMessage(err), nil)
		return
	}

	qm := saavn.BuildQualityMap(detail.Downloads)
	if qm.IsEmpty() {
		b.edit(ctx, chatID, messageID, pipeline.UserMessage(saavn.ErrUnavailable), nil)
		return
	}

	markup := qualityKeyboard(detail.ID, qm)
	b.edit(ctx, chatID, messageID, formatDetail(detail), &markup)
}

func (b *Bot) handleDownload(ctx context.Context, chatID int64, messageID int, songID string, bitrate saavn.Bitrate) {
	if !b.tryAcquire(chatID) {
		b.edit(ctx, chatID, messageID, "A download is already running in this chat. Please wait for it to finish.", nil)
		return
	}
	defer b.release(chatID)

	b.sessions.clear(chatID)

	res, err := b.pipe.Run(ctx, songID, bitrate, func(stage pipeline.Stage) {
		b.edit(ctx, chatID, messageID, progressText(stage), nil)
	})
	if err != nil {
		b.log.Errorw("download failed", "chat", chatID, "song", songID, "error", err)
		b.edit(ctx, chatID, messageID, pipeline.UserMessage(err), nil)
		return
	}
	defer func() {
		if err := os.Remove(res.Path); err != nil {
			b.log.Warnw("delivered file not removed", "path", res.Path, "error", err)
		}
	}()

	b.edit(ctx, chatID, messageID, "Uploading...", nil)

	upload := AudioUpload{
		Path:      res.Path,
		FileName:  res.FileName,
		Caption:   formatCaption(res),
		Title:     res.Tags.Title,
		Performer: res.Tags.Artist,
		Duration:  res.Duration,
	}
	if err := b.api.SendAudio(ctx, chatID, upload); err != nil {
		b.log.Errorw("sendAudio failed", "chat", chatID, "song", songID, "error", err)
		b.edit(ctx, chatID, messageID, "Upload failed. Please try again.", nil)
		return
	}

	if err := b.api.DeleteMessage(ctx, chatID, messageID); err != nil {
		b.log.Debugw("status message not removed", "chat", chatID, "error", err)
	}
}

func (b *Bot) tryAcquire(chatID int64) bool {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	if b.busy[chatID] {
		return false
	}
	b.busy[chatID] = true
	return true
}

func (b *Bot) release(chatID int64) {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	delete(b.busy, chatID)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.SendMessage(ctx, chatID, text, nil); err != nil {
		b.log.Errorw("sendMessage failed", "chat", chatID, "error", err)
	}
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) {
	if err := b.api.EditMessageText(ctx, chatID, messageID, text, markup); err != nil {
		b.log.Debugw("editMessageText failed", "chat", chatID, "error", err)
	}
}

// parseCommand splits "/cmd@BotName arg..." into its parts. The second
// return is the arguments; the third reports whether text was a command
// at all.
func parseCommand(text string) (string, []string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}
	command := strings.TrimPrefix(parts[0], "/")
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}
	return strings.ToLower(command), parts[1:], true
}

func progressText(stage pipeline.Stage) string {
	name := stage.String()
	return strings.ToUpper(name[:1]) + name[1:] + "..."
}

func formatResults(query string, songs []model.SongSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Results for %q:\n\n", query)
	for i, song := range songs {
		fmt.Fprintf(&sb, "%d. %s - %s", i+1, song.Title, song.Artists)
		if song.Duration > 0 {
			fmt.Fprintf(&sb, " (%s)", model.FormatDuration(song.Duration))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nPick a number to continue.")
	return sb.String()
}

func formatDetail(detail *model.SongDetail) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nby %s", detail.Title, detail.ArtistString())
	if detail.Album != "" {
		fmt.Fprintf(&sb, "\nAlbum: %s", detail.Album)
	}
	if detail.Duration > 0 {
		fmt.Fprintf(&sb, "\nDuration: %s", model.FormatDuration(detail.Duration))
	}
	sb.WriteString("\n\nChoose a quality:")
	return sb.String()
}

func formatCaption(res *pipeline.Result) string {
	return fmt.Sprintf("%s | %s", res.Bitrate, model.FormatFileSize(res.Size))
}

// resultsKeyboard lays out one numbered button per result, five per row,
// with a cancel button underneath.
func resultsKeyboard(count int) InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	var row []InlineKeyboardButton
	for i := 0; i < count; i++ {
		row = append(row, InlineKeyboardButton{
			Text:         strconv.Itoa(i + 1),
			CallbackData: selectData(i),
		})
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []InlineKeyboardButton{{Text: "Cancel", CallbackData: cbCancel}})
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}

// qualityKeyboard builds one button per available bitrate, highest first.
// A 96kbps-only stream is presented as 128kbps: the catalog labels the
// same encode either way, and the request side maps it back.
func qualityKeyboard(songID string, qm saavn.QualityMap) InlineKeyboardMarkup {
	var rows [][]InlineKeyboardButton
	for _, bitrate := range qm.Available() {
		display := bitrate
		request := bitrate
		if bitrate == saavn.Bitrate96 && !qm.Has(saavn.Bitrate128) {
			display = saavn.Bitrate128
			request = saavn.Bitrate128
		}
		rows = append(rows, []InlineKeyboardButton{{
			Text:         display.String(),
			CallbackData: downloadData(songID, request),
		}})
	}
	rows = append(rows, []InlineKeyboardButton{
		{Text: "Search again", CallbackData: cbSearchAgain},
		{Text: "Cancel", CallbackData: cbCancel},
	})
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}
