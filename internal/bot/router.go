package bot

import (
	"context"
	"strings"
	"sync"

	"github.com/dimonss/BirthdayBackend/internal/catalog"
	userrepo "github.com/dimonss/BirthdayBackend/internal/data/repos/user"
	"github.com/dimonss/BirthdayBackend/internal/domain"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
	"github.com/dimonss/BirthdayBackend/internal/prefs"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

// Callback data prefixes for inline keyboard selections.
const (
	callbackEventPrefix    = "event_"
	callbackTemplatePrefix = "template_"
	callbackVisibilityYes  = "visibility_yes"
	callbackVisibilityNo   = "visibility_no"
)

type RouterConfig struct {
	PhotoSizeLimit int64
	AudioSizeLimit int64
	MainPageURL    string // optional; shown after a visibility change
	Catalog        *catalog.Catalog
	Prefs          prefs.Store
	Assets         storage.Store
	Pages          PageGenerator
	Users          userrepo.Repo // nil when the audit database is unavailable
	Sink           Sink
	Files          FileSource
	Log            *logger.Logger
}

// Router applies the state-transition rules to inbound events: it updates the
// preference and asset stores and decides when the page artifact must be
// rebuilt. Events for the same user serialize through a per-user lock; users
// are fully independent. Asset presence is re-derived from the filesystem at
// every decision, never cached.
type Router struct {
	photoLimit  int64
	audioLimit  int64
	mainPageURL string
	catalog     *catalog.Catalog
	prefs       prefs.Store
	assets      storage.Store
	pages       PageGenerator
	users       userrepo.Repo
	sink        Sink
	files       FileSource
	log         *logger.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		photoLimit:  cfg.PhotoSizeLimit,
		audioLimit:  cfg.AudioSizeLimit,
		mainPageURL: cfg.MainPageURL,
		catalog:     cfg.Catalog,
		prefs:       cfg.Prefs,
		assets:      cfg.Assets,
		pages:       cfg.Pages,
		users:       cfg.Users,
		sink:        cfg.Sink,
		files:       cfg.Files,
		log:         cfg.Log.With("service", "EventRouter"),
		userLocks:   make(map[string]*sync.Mutex),
	}
}

func (r *Router) HandleStart(ctx context.Context, id Identity) {
	if id.Username == "" {
		r.send(id.ChatID, "Welcome! 👋\n\n"+msgNoUsername)
		return
	}
	r.registerUser(ctx, id)

	st := r.assets.Status(id.Username)
	r.send(id.ChatID, welcomeText(
		r.pages.PageURL(id.Username),
		st.Complete(),
		r.selectedOccasion(id.Username),
		r.selectedTemplate(id.Username),
	))
}

func (r *Router) HandleHelp(ctx context.Context, id Identity) {
	r.send(id.ChatID, helpText())
}

func (r *Router) HandleStatus(ctx context.Context, id Identity) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	st := r.assets.Status(id.Username)
	r.send(id.ChatID, statusText(
		r.pages.PageURL(id.Username),
		st,
		r.selectedOccasion(id.Username),
		r.selectedTemplate(id.Username),
	))
}

func (r *Router) HandleEventCommand(ctx context.Context, id Identity) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	rows := make([][]Button, 0, len(r.catalog.Occasions))
	for _, o := range r.catalog.Occasions {
		rows = append(rows, []Button{{Text: o.Label, Data: callbackEventPrefix + o.ID}})
	}
	r.sendKeyboard(id.ChatID, msgChooseEvent, rows)
}

func (r *Router) HandleTemplateCommand(ctx context.Context, id Identity) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	rows := make([][]Button, 0, len(r.catalog.Templates))
	for _, t := range r.catalog.Templates {
		rows = append(rows, []Button{{Text: t.Label, Data: callbackTemplatePrefix + t.ID}})
	}
	r.sendKeyboard(id.ChatID, msgChooseTemplate, rows)
}

func (r *Router) HandleVisibilityCommand(ctx context.Context, id Identity) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	rows := [][]Button{{
		{Text: "✅ Show", Data: callbackVisibilityYes},
		{Text: "❌ Hide", Data: callbackVisibilityNo},
	}}
	r.sendKeyboard(id.ChatID, visibilityPromptText(r.assets.Visibility(id.Username)), rows)
}

// HandleDelete removes the user's uploads and resets the page to the neutral
// default document. The page artifact itself is not deleted.
func (r *Router) HandleDelete(ctx context.Context, id Identity) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	unlock := r.lockUser(id.Username)
	defer unlock()

	if !r.assets.HasAny(id.Username) {
		r.send(id.ChatID, msgNothingToDelete)
		return
	}
	if err := r.assets.RemoveAssets(id.Username); err != nil {
		r.log.Error("remove assets failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	r.prefs.Clear(id.Username)
	if err := r.pages.GenerateDefault(id.Username); err != nil {
		r.log.Error("neutral page write failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	r.updateFileStatus(ctx, id)
	r.audit(ctx, id.Username, "delete", nil)
	r.send(id.ChatID, msgDeleted)
}

// HandlePhoto stores an uploaded photo and regenerates the page when the audio
// is already present. Oversized uploads are rejected with no state change.
func (r *Router) HandlePhoto(ctx context.Context, id Identity, up Upload) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	if up.Size > r.photoLimit {
		r.send(id.ChatID, limitExceededText("photo", r.photoLimit))
		return
	}
	unlock := r.lockUser(id.Username)
	defer unlock()

	data, err := r.files.Download(ctx, up.FileID)
	if err != nil {
		r.log.Error("photo download failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	if err := r.assets.SaveImage(id.Username, data); err != nil {
		r.log.Error("photo save failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	r.send(id.ChatID, msgPhotoSaved)
	r.audit(ctx, id.Username, "photo_upload", map[string]any{"size": up.Size})
	r.finishUpload(ctx, id, msgSendAudioNext)
}

// HandleAudio is the audio/voice counterpart of HandlePhoto.
func (r *Router) HandleAudio(ctx context.Context, id Identity, up Upload) {
	if id.Username == "" {
		r.send(id.ChatID, msgNoUsername)
		return
	}
	if up.Size > r.audioLimit {
		r.send(id.ChatID, limitExceededText("audio file", r.audioLimit))
		return
	}
	unlock := r.lockUser(id.Username)
	defer unlock()

	data, err := r.files.Download(ctx, up.FileID)
	if err != nil {
		r.log.Error("audio download failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	if err := r.assets.SaveAudio(id.Username, data); err != nil {
		r.log.Error("audio save failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	r.send(id.ChatID, msgAudioSaved)
	r.audit(ctx, id.Username, "audio_upload", map[string]any{"size": up.Size})
	r.finishUpload(ctx, id, msgSendPhotoNext)
}

// HandleCallback applies inline-keyboard selections: occasion, template and
// visibility. Unknown ids are answered without touching any state.
func (r *Router) HandleCallback(ctx context.Context, id Identity, cb Callback) {
	if id.Username == "" || cb.Data == "" {
		return
	}
	unlock := r.lockUser(id.Username)
	defer unlock()

	switch {
	case cb.Data == callbackVisibilityYes || cb.Data == callbackVisibilityNo:
		show := cb.Data == callbackVisibilityYes
		if err := r.assets.SetVisibility(id.Username, show); err != nil {
			r.log.Error("visibility update failed", "username", id.Username, "error", err)
			r.send(id.ChatID, msgGenericFailure)
			return
		}
		answer := "Your greeting is now hidden"
		if show {
			answer = "Your greeting will be shown"
		}
		r.answer(cb.ID, answer)
		r.edit(id.ChatID, cb.MessageID, visibilityChangedText(show, r.mainPageURL))
		r.audit(ctx, id.Username, "visibility", map[string]any{"show": show})

	case strings.HasPrefix(cb.Data, callbackEventPrefix):
		occasionID := strings.TrimPrefix(cb.Data, callbackEventPrefix)
		if !r.catalog.HasOccasion(occasionID) {
			r.answer(cb.ID, "Occasion not found")
			return
		}
		r.prefs.SetOccasion(id.Username, occasionID)
		complete := r.assets.Status(id.Username).Complete()
		if complete {
			templateID, _ := r.prefs.Template(id.Username)
			if err := r.pages.Generate(id.Username, templateID, occasionID); err != nil {
				r.log.Error("regeneration failed", "username", id.Username, "error", err)
				r.send(id.ChatID, msgGenericFailure)
				return
			}
		}
		occ := r.catalog.OccasionByID(occasionID)
		r.answer(cb.ID, "Selected occasion: "+occ.Label)
		r.edit(id.ChatID, cb.MessageID, occasionChosenText(occ, complete))
		r.audit(ctx, id.Username, "occasion_select", map[string]any{"occasion": occasionID})

	case strings.HasPrefix(cb.Data, callbackTemplatePrefix):
		templateID := strings.TrimPrefix(cb.Data, callbackTemplatePrefix)
		if !r.catalog.HasTemplate(templateID) {
			r.answer(cb.ID, "Template not found")
			return
		}
		r.prefs.SetTemplate(id.Username, templateID)
		complete := r.assets.Status(id.Username).Complete()
		if complete {
			occasionID, _ := r.prefs.Occasion(id.Username)
			if err := r.pages.Generate(id.Username, templateID, occasionID); err != nil {
				r.log.Error("regeneration failed", "username", id.Username, "error", err)
				r.send(id.ChatID, msgGenericFailure)
				return
			}
		}
		tpl := r.catalog.TemplateByID(templateID)
		r.answer(cb.ID, "Selected template: "+tpl.Label)
		r.edit(id.ChatID, cb.MessageID, templateChosenText(tpl, complete))
		r.audit(ctx, id.Username, "template_select", map[string]any{"template": templateID})
	}
}

// finishUpload re-derives asset presence after a successful save and either
// regenerates the page (both assets present) or prompts for the missing one.
func (r *Router) finishUpload(ctx context.Context, id Identity, promptMissing string) {
	st := r.assets.Status(id.Username)
	r.updateFileStatus(ctx, id)
	if !st.Complete() {
		r.send(id.ChatID, promptMissing)
		return
	}
	templateID, _ := r.prefs.Template(id.Username)
	occasionID, _ := r.prefs.Occasion(id.Username)
	if err := r.pages.Generate(id.Username, templateID, occasionID); err != nil {
		r.log.Error("regeneration failed", "username", id.Username, "error", err)
		r.send(id.ChatID, msgGenericFailure)
		return
	}
	r.send(id.ChatID, readyText(r.pages.PageURL(id.Username)))
}

func (r *Router) selectedOccasion(username string) *catalog.Occasion {
	id, ok := r.prefs.Occasion(username)
	if !ok || !r.catalog.HasOccasion(id) {
		return nil
	}
	o := r.catalog.OccasionByID(id)
	return &o
}

func (r *Router) selectedTemplate(username string) *catalog.Template {
	id, ok := r.prefs.Template(username)
	if !ok || !r.catalog.HasTemplate(id) {
		return nil
	}
	t := r.catalog.TemplateByID(id)
	return &t
}

// lockUser serializes events for one user; other users are unaffected.
func (r *Router) lockUser(username string) func() {
	r.mu.Lock()
	l, ok := r.userLocks[username]
	if !ok {
		l = &sync.Mutex{}
		r.userLocks[username] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Audit writes are best-effort; the reducer never fails because of them.

func (r *Router) registerUser(ctx context.Context, id Identity) {
	if r.users == nil {
		return
	}
	err := r.users.Register(ctx, &domain.User{
		TelegramID: id.TelegramID,
		Username:   id.Username,
		FirstName:  id.FirstName,
		LastName:   id.LastName,
	})
	if err != nil {
		r.log.Warn("user registration failed", "username", id.Username, "error", err)
	}
}

func (r *Router) updateFileStatus(ctx context.Context, id Identity) {
	if r.users == nil {
		return
	}
	st := r.assets.Status(id.Username)
	if err := r.users.UpdateFileStatus(ctx, id.TelegramID, st.Image, st.Audio); err != nil {
		r.log.Warn("file status update failed", "username", id.Username, "error", err)
	}
}

func (r *Router) audit(ctx context.Context, username, kind string, details map[string]any) {
	if r.users == nil {
		return
	}
	if err := r.users.LogEvent(ctx, username, kind, details); err != nil {
		r.log.Warn("audit log failed", "username", username, "kind", kind, "error", err)
	}
}

func (r *Router) send(chatID int64, text string) {
	if err := r.sink.SendMessage(chatID, text); err != nil {
		r.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func (r *Router) sendKeyboard(chatID int64, text string, rows [][]Button) {
	if err := r.sink.SendKeyboard(chatID, text, rows); err != nil {
		r.log.Warn("send keyboard failed", "chat_id", chatID, "error", err)
	}
}

func (r *Router) edit(chatID int64, messageID int, text string) {
	if err := r.sink.EditMessage(chatID, messageID, text); err != nil {
		r.log.Warn("edit failed", "chat_id", chatID, "error", err)
	}
}

func (r *Router) answer(callbackID, text string) {
	if err := r.sink.AnswerCallback(callbackID, text); err != nil {
		r.log.Warn("callback answer failed", "callback_id", callbackID, "error", err)
	}
}
