package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/models"
)

// Profile shows the current profile and optionally applies edits. Pressing
// enter on a field keeps its current value.
func (a *App) Profile(ctx context.Context) error {
	sess := a.sessions.Current()
	if sess == nil {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	p, err := a.profiles.Get(ctx, sess.PrincipalID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Email:          ", p.Email)
	printlnFn("Full name:      ", p.FullName)
	printlnFn("Phone:          ", p.Phone)
	printlnFn("Anonymous mode: ", p.AnonymousMode)

	edit, err := GetYesNo(a.reader, "Edit profile?", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if !edit {
		return nil
	}

	fullName, err := GetSimpleText(a.reader, fmt.Sprintf("Full name [%s]", p.FullName), os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if fullName != "" {
		p.FullName = fullName
	}

	phone, err := GetSimpleText(a.reader, fmt.Sprintf("Phone [%s]", p.Phone), os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if phone != "" {
		p.Phone = phone
	}

	anon, err := GetYesNo(a.reader, fmt.Sprintf("Anonymous mode (currently %v)?", p.AnonymousMode), os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	p.AnonymousMode = anon

	if err := a.profiles.Update(ctx, p); err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Profile updated.")
	return nil
}

// Theme shows the active theme and optionally switches it. Works before
// login too; then only the local cache is touched.
func (a *App) Theme(ctx context.Context) error {
	current, err := a.prefs.Theme(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Current theme:", current)

	answer, err := GetSimpleText(a.reader, "New theme (light, dark, toggle, or enter to keep)", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	switch strings.ToLower(answer) {
	case "":
		return nil
	case "toggle":
		next, err := a.prefs.ToggleTheme(ctx)
		if err != nil {
			printlnFn("Error:", err)
			return err
		}
		printlnFn("Theme set to", next)
	default:
		theme := models.Theme(strings.ToLower(answer))
		if err := a.prefs.SetTheme(ctx, theme); err != nil {
			printlnFn("Error:", err)
			return err
		}
		printlnFn("Theme set to", theme)
	}

	return nil
}

// Notifications shows notification settings and optionally applies edits.
func (a *App) Notifications(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	p, err := a.prefs.Notifications(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Email notifications:", p.EmailNotifications)
	printlnFn("SMS notifications:  ", p.SmsNotifications)
	printlnFn("Frequency:          ", p.NotificationFrequency)

	edit, err := GetYesNo(a.reader, "Edit notification settings?", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if !edit {
		return nil
	}

	email, err := GetYesNo(a.reader, "Email notifications?", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	sms, err := GetYesNo(a.reader, "SMS notifications?", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	freqText, err := GetSimpleText(a.reader, fmt.Sprintf("Frequency (immediate, daily, weekly) [%s]", p.NotificationFrequency), os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	freq := p.NotificationFrequency
	if freqText != "" {
		freq = models.NotificationFrequency(strings.ToLower(freqText))
	}

	if err := a.prefs.SaveNotifications(ctx, email, sms, freq); err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Notification settings saved.")
	return nil
}
