package bot

import (
	"fmt"
	"strings"

	"github.com/dimonss/BirthdayBackend/internal/catalog"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

// User-facing texts. Kept together so the wording stays consistent between the
// command handlers and the callback edits.

const msgNoUsername = "To use this bot you need to set a username in your Telegram settings.\n\n" +
	"How to set a username:\n" +
	"1. Open Telegram settings\n" +
	"2. Go to \"Edit profile\"\n" +
	"3. Tap the \"Username\" field\n" +
	"4. Enter the username you want\n" +
	"5. Tap \"Save\"\n\n" +
	"Once your username is set, send /start again."

const msgGenericFailure = "Something went wrong. Please try again later."

const msgNothingToDelete = "You have no uploaded files yet."

const msgDeleted = "✅ Your greeting has been deleted.\nYou can create a new one by picking an occasion with /event."

const msgChooseEvent = "🎉 Pick the occasion for your greeting:"

const msgChooseTemplate = "🎨 Pick a template for your greeting:"

const msgSendAudioNext = "Now send an audio message to finish your greeting!"

const msgSendPhotoNext = "Now send a photo to finish your greeting!"

const msgPhotoSaved = "Photo saved!"

const msgAudioSaved = "Audio saved!"

func helpText() string {
	return "📚 How to use this bot:\n\n" +
		"1. /start - Start working with the bot\n" +
		"2. /help - Show this help\n" +
		"3. /event - Pick the occasion\n" +
		"4. /template - Pick a template\n" +
		"5. /status - Check the state of your greeting\n" +
		"6. /visibility - Show or hide it on the main page\n" +
		"7. /delete - Delete your greeting\n\n" +
		"To create a greeting:\n" +
		"1. Pick the occasion with /event\n" +
		"2. Pick a template with /template\n" +
		"3. Send a photo (up to 500 KB)\n" +
		"4. Send an audio message (up to 1 MB)\n" +
		"5. Get the link to your page\n\n" +
		"You can update your greeting at any time by sending a new photo or audio."
}

func welcomeText(pageURL string, hasFiles bool, occ *catalog.Occasion, tpl *catalog.Template) string {
	var b strings.Builder
	b.WriteString("Welcome! 👋\n\n")
	b.WriteString("This bot helps you create a personal greeting page!\n\n")
	b.WriteString("How it works:\n")
	b.WriteString("1. Pick the occasion with /event\n")
	b.WriteString("2. Pick a template with /template\n")
	b.WriteString("3. Send a photo for your greeting\n")
	b.WriteString("4. Send an audio message with your wishes\n")
	b.WriteString("5. Get the link to your personal greeting page\n\n")
	if occ != nil {
		fmt.Fprintf(&b, "Selected occasion: %s\n", occ.Label)
	}
	if tpl != nil {
		fmt.Fprintf(&b, "Selected template: %s\n\n", tpl.Label)
	}
	if hasFiles {
		b.WriteString("You already have a finished greeting! You can:\n")
		fmt.Fprintf(&b, "• View it here: %s\n", pageURL)
		b.WriteString("• Change the occasion with /event\n")
		b.WriteString("• Change the template with /template\n")
		b.WriteString("• Update it by sending a new photo or audio")
	} else {
		b.WriteString("Start by picking an occasion with /event!")
	}
	return b.String()
}

func statusText(pageURL string, st storage.AssetStatus, occ *catalog.Occasion, tpl *catalog.Template) string {
	var b strings.Builder
	b.WriteString("📊 Your greeting status:\n\n")
	if occ != nil {
		fmt.Fprintf(&b, "Occasion: ✅ %s\n", occ.Label)
	} else {
		b.WriteString("Occasion: ❌ Not selected\n")
	}
	if tpl != nil {
		fmt.Fprintf(&b, "Template: ✅ %s\n", tpl.Label)
	} else {
		b.WriteString("Template: ❌ Not selected\n")
	}
	fmt.Fprintf(&b, "Photo: %s\n", presence(st.Image))
	fmt.Fprintf(&b, "Audio: %s\n\n", presence(st.Audio))
	if st.Complete() {
		fmt.Fprintf(&b, "Your greeting is ready!\nYou can view it here:\n%s", pageURL)
	} else {
		b.WriteString("To finish your greeting you still need to:\n")
		if occ == nil {
			b.WriteString("• Pick an occasion with /event\n")
		}
		if tpl == nil {
			b.WriteString("• Pick a template with /template\n")
		}
		if !st.Image {
			b.WriteString("• Upload a photo\n")
		}
		if !st.Audio {
			b.WriteString("• Upload an audio message")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func readyText(pageURL string) string {
	return "Your greeting page is ready!\n\n" +
		"You can view it here:\n" + pageURL + "\n\n" +
		"You can update your greeting by sending a new photo or audio.\n\n" +
		"If the link preview in Telegram did not refresh, send the URL to @WebpageBot and it will update the preview."
}

func limitExceededText(kind string, limit int64) string {
	return fmt.Sprintf("The %s exceeds the allowed limit (%s). Please send a smaller %s.",
		kind, formatFileSize(limit), kind)
}

func visibilityPromptText(visible bool) string {
	current := "❌ Your greeting is hidden from the main page"
	if visible {
		current = "✅ Your greeting is shown on the main page"
	}
	return "🌐 Main page visibility\n\n" + current + "\n\nChoose an action:"
}

func visibilityChangedText(visible bool, mainPageURL string) string {
	if !visible {
		return "❌ Your greeting is hidden from the main page.\n\nChange: /visibility"
	}
	text := "✅ Your greeting is now shown on the main page!"
	if mainPageURL != "" {
		text += "\n\nSee the main page here:\n" + mainPageURL
	}
	return text + "\n\nChange: /visibility"
}

func occasionChosenText(occ catalog.Occasion, complete bool) string {
	tail := "Now pick a template with /template and upload a photo and audio to create your greeting."
	if complete {
		tail = "Your page has been updated with the new occasion!"
	}
	return fmt.Sprintf("✅ Occasion %q selected!\n\nDescription: %s\n\n%s", occ.Label, occ.Description, tail)
}

func templateChosenText(tpl catalog.Template, complete bool) string {
	tail := "Your photo and audio will use the selected template once uploaded."
	if complete {
		tail = "Your page has been updated with the new template!"
	}
	return fmt.Sprintf("✅ Template %q selected!\n\nDescription: %s\n\n%s", tpl.Label, tpl.Description, tail)
}

func presence(ok bool) string {
	if ok {
		return "✅ Uploaded"
	}
	return "❌ Missing"
}

func formatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
