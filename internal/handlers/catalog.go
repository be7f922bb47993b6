package handlers

import (
	"context"

	"github.com/serroba/duckbin/internal/snippet"
)

// LanguageBody is the wire form of a registry language.
type LanguageBody struct {
	ID        string `example:"go"          json:"id"`
	Name      string `example:"Go"          json:"name"`
	Extension string `example:"go"          json:"extension"`
	MimeType  string `example:"text/x-go"   json:"mimeType"`
	Category  string `example:"programming" json:"category"`
}

// ThemeBody is the wire form of a registry theme.
type ThemeBody struct {
	ID         string `example:"dark"    json:"id"`
	Name       string `example:"Dark"    json:"name"`
	Background string `example:"#1e1e1e" json:"background"`
	Primary    string `example:"#ffffff" json:"primary"`
	Logo       string `json:"logo"`
}

// LanguagesResponse lists the supported languages.
type LanguagesResponse struct {
	Body struct {
		Items   []LanguageBody `json:"items"`
		Default string         `doc:"Language used when none is chosen" json:"default"`
	}
}

// ThemesResponse lists the supported themes.
type ThemesResponse struct {
	Body struct {
		Items   []ThemeBody `json:"items"`
		Default string      `doc:"Theme used when none is chosen" json:"default"`
	}
}

func ListLanguages(_ context.Context, _ *struct{}) (*LanguagesResponse, error) {
	resp := &LanguagesResponse{}
	resp.Body.Default = snippet.DefaultLanguageID

	for _, l := range snippet.Languages() {
		resp.Body.Items = append(resp.Body.Items, LanguageBody{
			ID:        l.ID,
			Name:      l.Name,
			Extension: l.Extension,
			MimeType:  l.MimeType,
			Category:  string(l.Category),
		})
	}

	return resp, nil
}

func ListThemes(_ context.Context, _ *struct{}) (*ThemesResponse, error) {
	resp := &ThemesResponse{}
	resp.Body.Default = snippet.DefaultThemeID

	for _, t := range snippet.Themes() {
		resp.Body.Items = append(resp.Body.Items, ThemeBody{
			ID:         t.ID,
			Name:       t.Name,
			Background: t.Background,
			Primary:    t.Primary,
			Logo:       t.Logo,
		})
	}

	return resp, nil
}
