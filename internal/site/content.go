// Package site holds the portfolio's display content: profile, projects,
// experience timeline and the ordered page sections that render them.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContent []byte

// ErrNotFound is returned when a project slug does not exist.
var ErrNotFound = errors.New("not found")

// Hero background variants understood by the client scripts.
const (
	EffectLiquidBlob  = "liquid-blob"
	EffectParticles   = "particles"
	EffectCursorTrail = "cursor-trail"
)

var knownEffects = map[string]bool{
	EffectLiquidBlob:  true,
	EffectParticles:   true,
	EffectCursorTrail: true,
}

// Content is everything the page renders.
type Content struct {
	Meta         Meta         `yaml:"meta" json:"meta"`
	Profile      Profile      `yaml:"profile" json:"profile"`
	Hero         Hero         `yaml:"hero" json:"hero"`
	Intro        Intro        `yaml:"intro" json:"intro"`
	Projects     []Project    `yaml:"projects" json:"projects"`
	Experience   []Experience `yaml:"experience" json:"experience"`
	Integrations Integrations `yaml:"integrations" json:"integrations"`
}

// Meta is page-level SEO metadata.
type Meta struct {
	Title         string   `yaml:"title" json:"title"`
	Description   string   `yaml:"description" json:"description"`
	Keywords      []string `yaml:"keywords" json:"keywords"`
	CanonicalURL  string   `yaml:"canonical_url" json:"canonical_url"`
	OGImage       string   `yaml:"og_image" json:"og_image"`
	TwitterHandle string   `yaml:"twitter_handle" json:"twitter_handle"`
}

// Profile identifies the site owner.
type Profile struct {
	Brand  string `yaml:"brand" json:"brand"`
	Owner  string `yaml:"owner" json:"owner"`
	Footer string `yaml:"footer" json:"footer"`
	Links  []Link `yaml:"links" json:"links"`
}

// Link is a labelled external URL.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Hero is the landing section. The contact prompt lives inside it.
type Hero struct {
	Headline      string `yaml:"headline" json:"headline"`
	Tagline       string `yaml:"tagline" json:"tagline"`
	Effect        string `yaml:"effect" json:"effect"`
	ContactPrompt string `yaml:"contact_prompt" json:"contact_prompt"`
}

// Intro is the about block with its counters.
type Intro struct {
	Heading    string   `yaml:"heading" json:"heading"`
	Paragraphs []string `yaml:"paragraphs" json:"paragraphs"`
	Portrait   string   `yaml:"portrait" json:"portrait"`
	Stats      []Stat   `yaml:"stats" json:"stats"`
}

// Stat is an animated counter.
type Stat struct {
	Value  int    `yaml:"value" json:"value"`
	Suffix string `yaml:"suffix" json:"suffix"`
	Label  string `yaml:"label" json:"label"`
}

// Project is a showcase entry.
type Project struct {
	Slug         string   `yaml:"slug" json:"slug"`
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Tags         []string `yaml:"tags" json:"tags"`
	Image        string   `yaml:"image" json:"image"`
	DesktopImage string   `yaml:"desktop_image" json:"desktop_image,omitempty"`
	MobileImage  string   `yaml:"mobile_image" json:"mobile_image,omitempty"`
	LiveURL      string   `yaml:"live_url" json:"live_url,omitempty"`
	GitHubURL    string   `yaml:"github_url" json:"github_url,omitempty"`
}

// Experience is one entry on the career timeline.
type Experience struct {
	Role        string `yaml:"role" json:"role"`
	Company     string `yaml:"company" json:"company"`
	Period      string `yaml:"period" json:"period"`
	Description string `yaml:"description" json:"description"`
}

// Integrations are the "developer life" cards.
type Integrations struct {
	GitHub     GitHubActivity `yaml:"github" json:"github"`
	NowPlaying NowPlaying     `yaml:"now_playing" json:"now_playing"`
	LatestPost LatestPost     `yaml:"latest_post" json:"latest_post"`
}

// GitHubActivity is a static contribution snapshot. Levels are bar heights
// in percent.
type GitHubActivity struct {
	Levels       []int  `yaml:"levels" json:"levels"`
	LatestCommit string `yaml:"latest_commit" json:"latest_commit"`
	CommitAge    string `yaml:"commit_age" json:"commit_age"`
}

type NowPlaying struct {
	Active bool   `yaml:"active" json:"active"`
	Track  string `yaml:"track" json:"track"`
	Artist string `yaml:"artist" json:"artist"`
}

type LatestPost struct {
	Text string `yaml:"text" json:"text"`
	Age  string `yaml:"age" json:"age"`
}

// Default returns the embedded content. It panics if the embedded file is
// invalid, which is a build defect.
func Default() *Content {
	c, err := Parse(defaultContent)
	if err != nil {
		panic("site: embedded content.yaml: " + err.Error())
	}
	return c
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Parse(defaultContent)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) normalize() error {
	if strings.TrimSpace(c.Profile.Brand) == "" {
		return errors.New("profile.brand is required")
	}
	if c.Meta.Title == "" {
		c.Meta.Title = c.Profile.Brand
	}

	if c.Hero.Effect == "" {
		c.Hero.Effect = EffectLiquidBlob
	}
	if !knownEffects[c.Hero.Effect] {
		return fmt.Errorf("hero.effect %q is not one of liquid-blob, particles, cursor-trail", c.Hero.Effect)
	}

	seen := make(map[string]bool, len(c.Projects))
	for i := range c.Projects {
		p := &c.Projects[i]
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("projects[%d]: title is required", i)
		}
		if p.Slug == "" {
			p.Slug = Slugify(p.Title)
		}
		if seen[p.Slug] {
			return fmt.Errorf("projects[%d]: duplicate slug %q", i, p.Slug)
		}
		seen[p.Slug] = true
	}
	return nil
}

// Project returns the project with the given slug.
func (c *Content) Project(slug string) (*Project, error) {
	for i := range c.Projects {
		if c.Projects[i].Slug == slug {
			return &c.Projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", slug, ErrNotFound)
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
