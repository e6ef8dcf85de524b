// Package content loads the static display content of the landing page and
// the dashboards from an embedded YAML catalog.
package content

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"

	"fithub/internal/domain/navigation"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the whole content tree.
type Catalog struct {
	Landing Landing          `yaml:"landing"`
	Trainer TrainerDashboard `yaml:"trainer"`
	Member  MemberDashboard  `yaml:"member"`
	Admin   AdminDashboard   `yaml:"admin"`

	landingMenu []navigation.Entry
}

type Landing struct {
	AccountLinks  []MenuItem    `yaml:"accountLinks"`
	Hero          Hero          `yaml:"hero"`
	FeaturesIntro string        `yaml:"featuresIntro"`
	Features      []Feature     `yaml:"features"`
	Stats         []Stat        `yaml:"stats"`
	Testimonials  []Testimonial `yaml:"testimonials"`
	CallToAction  CallToAction  `yaml:"callToAction"`
	Footer        Footer        `yaml:"footer"`
}

// MenuItem is a navigation entry whose visibility is an expr rule.
type MenuItem struct {
	Label       string `yaml:"label"`
	Icon        string `yaml:"icon"`
	Destination string `yaml:"destination"`
	VisibleWhen string `yaml:"visibleWhen"`
}

type Hero struct {
	Headline    string   `yaml:"headline"`
	Subheadline string   `yaml:"subheadline"`
	Tagline     string   `yaml:"tagline"`
	Perks       []string `yaml:"perks"`
}

type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Stat struct {
	Label  string `yaml:"label"`
	Value  string `yaml:"value"`
	Change string `yaml:"change"`
	Trend  string `yaml:"trend"`
}

// TrendUp reports whether the stat moved up.
func (s Stat) TrendUp() bool {
	return s.Trend != "down"
}

type Testimonial struct {
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Text   string `yaml:"text"`
	Rating int    `yaml:"rating"`
}

type CallToAction struct {
	Headline string `yaml:"headline"`
	Body     string `yaml:"body"`
	Button   string `yaml:"button"`
}

type Footer struct {
	Blurb     string          `yaml:"blurb"`
	Sections  []FooterSection `yaml:"sections"`
	Legal     []string        `yaml:"legal"`
	Copyright string          `yaml:"copyright"`
}

type FooterSection struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type TrainerDashboard struct {
	Intro        string          `yaml:"intro"`
	QuickActions []QuickAction   `yaml:"quickActions"`
	Stats        []Stat          `yaml:"stats"`
	Schedule     []Session       `yaml:"schedule"`
	Activity     []Activity      `yaml:"activity"`
	Members      []MemberSummary `yaml:"members"`
	Classes      []Class         `yaml:"classes"`
}

type QuickAction struct {
	Label       string `yaml:"label"`
	Icon        string `yaml:"icon"`
	Destination string `yaml:"destination"`
	Description string `yaml:"description"`
}

type Session struct {
	Member string `yaml:"member"`
	Time   string `yaml:"time"`
	Type   string `yaml:"type"`
}

type Activity struct {
	Member   string `yaml:"member"`
	Activity string `yaml:"activity"`
	// Ago is a Go duration relative to the render time.
	Ago  string `yaml:"ago"`
	Kind string `yaml:"kind"`
}

// At returns when the activity happened, relative to now.
func (a Activity) At(now time.Time) time.Time {
	d, err := time.ParseDuration(a.Ago)
	if err != nil {
		return now
	}
	return now.Add(-d)
}

type MemberSummary struct {
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Plan   string `yaml:"plan"`
	Status string `yaml:"status"`
}

type Class struct {
	Name     string `yaml:"name"`
	Time     string `yaml:"time"`
	Duration string `yaml:"duration"`
	Enrolled int    `yaml:"enrolled"`
}

// Minutes returns the class length in minutes, or 0 when unparsable.
func (c Class) Minutes() int {
	d, err := time.ParseDuration(c.Duration)
	if err != nil {
		return 0
	}
	return int(d.Minutes())
}

type MemberDashboard struct {
	Intro        string        `yaml:"intro"`
	Stats        []Stat        `yaml:"stats"`
	QuickActions []QuickAction `yaml:"quickActions"`
}

// AdminDashboard holds the static admin stats; member and trainer counts are
// computed from the account store.
type AdminDashboard struct {
	Stats []Stat `yaml:"stats"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	return Load(file)
}

// Load decodes and validates a catalog.
// POST: Every visibility rule compiles
func Load(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.NewDecoder(r, yaml.DisallowUnknownField()).Decode(&catalog); err != nil {
		return nil, errors.Wrap(err, "could not decode content catalog")
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	catalog.landingMenu = catalog.buildLandingMenu()
	return &catalog, nil
}

// Validate compiles every visibility rule and checks durations.
func (c *Catalog) Validate() error {
	for _, item := range c.Landing.AccountLinks {
		if item.VisibleWhen == "" {
			continue
		}
		if err := navigation.NewRule(item.VisibleWhen).Compile(); err != nil {
			return errors.Wrapf(err, "landing link '%s'", item.Label)
		}
	}
	for _, a := range c.Trainer.Activity {
		if _, err := time.ParseDuration(a.Ago); err != nil {
			return errors.Wrapf(err, "activity '%s' of '%s'", a.Activity, a.Member)
		}
	}
	return nil
}

// LandingMenu is navigation.LandingMenu followed by the account links,
// each gated on its rule.
func (c *Catalog) LandingMenu() []navigation.Entry {
	if c.landingMenu == nil {
		c.landingMenu = c.buildLandingMenu()
	}
	return c.landingMenu
}

func (c *Catalog) buildLandingMenu() []navigation.Entry {
	entries := make([]navigation.Entry, 0, len(navigation.LandingMenu)+len(c.Landing.AccountLinks))
	entries = append(entries, navigation.LandingMenu...)
	for _, item := range c.Landing.AccountLinks {
		entry := navigation.Entry{
			Label:       item.Label,
			Icon:        navigation.IconRef(item.Icon),
			Destination: item.Destination,
		}
		if item.VisibleWhen != "" {
			entry.VisibleWhen = navigation.NewRule(item.VisibleWhen).Predicate()
		}
		entries = append(entries, entry)
	}
	return entries
}

var markdown = goldmark.New()

// Markdown renders src as HTML. Raw HTML in src is not passed through.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", errors.WithStack(err)
	}
	return template.HTML(buf.String()), nil
}
