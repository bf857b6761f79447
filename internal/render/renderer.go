// Package render generates outreach assets for an account from its
// researched claims: a persona-aware email draft, a pitch brief, and a
// standalone landing page. Output is deterministic for a given account
// and claim set.
package render

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/prospectorhq/prospector/internal/model"
)

const (
	defaultSender = "The Prospector Team"
	defaultCTA    = "Book a 20-minute walkthrough"

	maxProofPoints     = 3
	proofPointMinScore = 0.7
	emailProofMaxRunes = 100
)

var renderNow = time.Now

// Renderer writes asset files under assetsDir/<account-id>/. Rendering
// the same kind again overwrites the previous files.
type Renderer struct {
	assetsDir string
	sender    string

	email   *template.Template
	pitch   *template.Template
	landing *htmltemplate.Template
	css     *template.Template
}

// NewRenderer parses the built-in templates, with per-file overrides
// from templatesDir when it holds a file of the matching name.
func NewRenderer(assetsDir, templatesDir string) (*Renderer, error) {
	if assetsDir == "" {
		assetsDir = "assets"
	}
	r := &Renderer{assetsDir: assetsDir, sender: defaultSender}

	emailText, err := templateText(templatesDir, emailTemplateName, emailTemplate)
	if err != nil {
		return nil, err
	}
	r.email, err = template.New(emailTemplateName).Parse(emailText)
	if err != nil {
		return nil, fmt.Errorf("parse email template: %w", err)
	}

	pitchText, err := templateText(templatesDir, pitchTemplateName, pitchTemplate)
	if err != nil {
		return nil, err
	}
	r.pitch, err = template.New(pitchTemplateName).Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(pitchText)
	if err != nil {
		return nil, fmt.Errorf("parse pitch template: %w", err)
	}

	landingText, err := templateText(templatesDir, landingHTMLTemplateName, landingHTMLTemplate)
	if err != nil {
		return nil, err
	}
	r.landing, err = htmltemplate.New(landingHTMLTemplateName).Parse(landingText)
	if err != nil {
		return nil, fmt.Errorf("parse landing template: %w", err)
	}

	cssText, err := templateText(templatesDir, landingCSSTemplateName, landingCSSTemplate)
	if err != nil {
		return nil, err
	}
	r.css, err = template.New(landingCSSTemplateName).Parse(cssText)
	if err != nil {
		return nil, fmt.Errorf("parse landing css template: %w", err)
	}

	return r, nil
}

// FromConfig builds a Renderer from the assets section of the runtime config.
func FromConfig(cfg *model.Config) (*Renderer, error) {
	return NewRenderer(cfg.Assets.Dir, cfg.Assets.TemplatesDir)
}

func templateText(dir, name, builtin string) (string, error) {
	if dir == "" {
		return builtin, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return builtin, nil
	}
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(data), nil
}

// ProofPoints selects the claims strong enough to quote in rendered
// assets: confidence above 0.7, top three by confidence, earlier claims
// winning ties.
func ProofPoints(claims []model.Claim) []model.Claim {
	strong := make([]model.Claim, 0, len(claims))
	for _, claim := range claims {
		if claim.Confidence > proofPointMinScore {
			strong = append(strong, claim)
		}
	}
	sort.SliceStable(strong, func(i, j int) bool {
		return strong[i].Confidence > strong[j].Confidence
	})
	if len(strong) > maxProofPoints {
		strong = strong[:maxProofPoints]
	}
	return strong
}

// Render generates the requested asset kinds for the account. An empty
// kinds list renders all three.
func (r *Renderer) Render(account *model.Account, claims []model.Claim, persona model.Persona, kinds []model.AssetKind) ([]model.Asset, error) {
	if len(kinds) == 0 {
		kinds = []model.AssetKind{model.AssetKindEmail, model.AssetKindPitch, model.AssetKindLanding}
	}
	assets := make([]model.Asset, 0, len(kinds))
	for _, kind := range kinds {
		var asset *model.Asset
		var err error
		switch kind {
		case model.AssetKindEmail:
			asset, err = r.RenderEmail(account, claims, persona)
		case model.AssetKindPitch:
			asset, err = r.RenderPitch(account, claims)
		case model.AssetKindLanding:
			asset, err = r.RenderLanding(account, claims)
		default:
			err = fmt.Errorf("unknown asset kind: %s", kind)
		}
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	return assets, nil
}

type emailData struct {
	Account     *model.Account
	ToneLine    string
	ProofPoints []string
	CTA         string
	Persona     model.Persona
	Sender      string
	GeneratedAt string
}

var toneLines = map[model.Persona]string{
	model.PersonaExec:     "I will keep this brief: for a leadership team, the case comes down to measurable impact and research your organization can actually defend.",
	model.PersonaBuyer:    "Since you likely own the evaluation, I will focus on what matters in a comparison: sourced claims you can verify instead of marketing copy you have to trust.",
	model.PersonaChampion: "You would be the one living with this day to day, so I will focus on how it fits your team's workflow without adding another tool to babysit.",
}

// RenderEmail writes the outreach email draft to email.txt. An empty
// persona falls back to exec.
func (r *Renderer) RenderEmail(account *model.Account, claims []model.Claim, persona model.Persona) (*model.Asset, error) {
	if persona == "" {
		persona = model.PersonaExec
	}
	if !model.ValidPersona(persona) {
		return nil, fmt.Errorf("unknown persona: %s", persona)
	}

	dir, err := r.ensureAccountDir(account.ID)
	if err != nil {
		return nil, err
	}

	proofs := ProofPoints(claims)
	proofTexts := make([]string, 0, len(proofs))
	for _, claim := range proofs {
		proofTexts = append(proofTexts, truncate(claim.Text, emailProofMaxRunes))
	}

	data := emailData{
		Account:     account,
		ToneLine:    toneLines[persona],
		ProofPoints: proofTexts,
		CTA:         defaultCTA,
		Persona:     persona,
		Sender:      r.sender,
		GeneratedAt: renderNow().UTC().Format("2006-01-02 15:04:05"),
	}

	var buf bytes.Buffer
	if err := r.email.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}

	path := filepath.Join(dir, "email.txt")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write email: %w", err)
	}
	return r.newAsset(account.ID, model.AssetKindEmail, path), nil
}

type pitchObjection struct {
	Objection string
	Response  string
}

type pitchData struct {
	Account     *model.Account
	Agenda      []string
	Objections  []pitchObjection
	GeneratedAt string
}

// RenderPitch writes the pitch brief to pitch.md: a six-to-eight item
// agenda and two objection/response pairs.
func (r *Renderer) RenderPitch(account *model.Account, claims []model.Claim) (*model.Asset, error) {
	dir, err := r.ensureAccountDir(account.ID)
	if err != nil {
		return nil, err
	}

	data := pitchData{
		Account:     account,
		Agenda:      buildAgenda(account, ProofPoints(claims)),
		Objections:  buildObjections(account),
		GeneratedAt: renderNow().UTC().Format("2006-01-02 15:04:05"),
	}

	var buf bytes.Buffer
	if err := r.pitch.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render pitch: %w", err)
	}

	path := filepath.Join(dir, "pitch.md")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write pitch: %w", err)
	}
	return r.newAsset(account.ID, model.AssetKindPitch, path), nil
}

func buildAgenda(account *model.Account, proofPoints []model.Claim) []string {
	agenda := []string{
		"Opening and rapport building",
		fmt.Sprintf("Discovery: current challenges at %s", account.Name),
		fmt.Sprintf("Solution overview tailored to %s", account.Name),
	}
	if len(proofPoints) > 0 {
		agenda = append(agenda, fmt.Sprintf("What our research surfaced about %s", account.Name))
	}
	if account.Industry != "" {
		agenda = append(agenda, fmt.Sprintf("Where %s teams see the fastest returns", account.Industry))
	}
	return append(agenda,
		"ROI and business case",
		"Implementation approach and timeline",
		"Next steps and commitment",
	)
}

func buildObjections(account *model.Account) []pitchObjection {
	return []pitchObjection{
		{
			Objection: "We already have a research process for accounts like this.",
			Response:  fmt.Sprintf("Most teams do, and it usually lives in tabs and tribal knowledge. Every claim we surface about %s carries its source URL and an evidence quote, so your existing process gets faster to verify rather than replaced.", account.Name),
		},
		{
			Objection: "This is not a priority for us this quarter.",
			Response:  fmt.Sprintf("Understood. Setup is a single afternoon, so when %s next revisits pipeline quality the groundwork is already in place and nothing new lands on your team's plate between now and then.", account.Name),
		},
	}
}

type landingData struct {
	Account        *model.Account
	ProofPoints    []model.Claim
	CTA            string
	GeneratedMonth string
}

// RenderLanding writes index.html and styles.css under the landing
// subdirectory. The asset path is the directory.
func (r *Renderer) RenderLanding(account *model.Account, claims []model.Claim) (*model.Asset, error) {
	accountDir, err := r.ensureAccountDir(account.ID)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(accountDir, "landing")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create landing dir: %w", err)
	}

	data := landingData{
		Account:        account,
		ProofPoints:    ProofPoints(claims),
		CTA:            defaultCTA,
		GeneratedMonth: renderNow().UTC().Format("January 2006"),
	}

	var buf bytes.Buffer
	if err := r.landing.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render landing page: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write landing page: %w", err)
	}

	buf.Reset()
	if err := r.css.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("render landing css: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles.css"), buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write landing css: %w", err)
	}

	return r.newAsset(account.ID, model.AssetKindLanding, dir), nil
}

// WriteZip streams the regular files of dir into w as a zip archive,
// each entry stored at its base name.
func WriteZip(w io.Writer, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read asset dir: %w", err)
	}
	zw := zip.NewWriter(w)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		f, err := zw.Create(entry.Name())
		if err != nil {
			return fmt.Errorf("add %s to archive: %w", entry.Name(), err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write %s to archive: %w", entry.Name(), err)
		}
	}
	return zw.Close()
}

// RemoveAccountDir deletes all rendered files for the account. A missing
// directory is not an error.
func (r *Renderer) RemoveAccountDir(accountID string) error {
	if _, err := uuid.Parse(accountID); err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}
	return os.RemoveAll(filepath.Join(r.assetsDir, accountID))
}

func (r *Renderer) ensureAccountDir(accountID string) (string, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return "", fmt.Errorf("invalid account id: %w", err)
	}
	dir := filepath.Join(r.assetsDir, accountID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create account asset dir: %w", err)
	}
	return dir, nil
}

func (r *Renderer) newAsset(accountID string, kind model.AssetKind, path string) *model.Asset {
	return &model.Asset{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Kind:      kind,
		Path:      path,
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "..."
}
