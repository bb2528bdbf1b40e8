// Package sections renders the typed building blocks of a generated page
// (hero, features, about...) into HTML fragments.
package sections

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Kind names a section type. The set is closed.
type Kind string

const (
	KindHero         Kind = "hero"
	KindFeatures     Kind = "features"
	KindAbout        Kind = "about"
	KindTestimonials Kind = "testimonials"
	KindCTA          Kind = "cta"
	KindContact      Kind = "contact"
)

// Kinds lists every known kind.
var Kinds = []Kind{KindHero, KindFeatures, KindAbout, KindTestimonials, KindCTA, KindContact}

// ErrUnknownKind is returned for a section whose kind is not in Kinds.
var ErrUnknownKind = errors.New("unknown section kind")

// Section is one block of a page. Content holds the kind-specific schema
// as JSON.
type Section struct {
	Kind    Kind            `json:"kind"`
	Content json.RawMessage `json:"content"`
}

// HeroContent is the opening banner of a page.
type HeroContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTALabel string `json:"cta_label"`
	CTAHref  string `json:"cta_href"`
}

// Feature is one item of a features grid.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FeaturesContent is a titled grid of features.
type FeaturesContent struct {
	Title string    `json:"title"`
	Items []Feature `json:"items"`
}

// AboutContent has a markdown body.
type AboutContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Testimonial is one customer quote.
type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
}

// TestimonialsContent is a list of quotes.
type TestimonialsContent struct {
	Title string        `json:"title"`
	Items []Testimonial `json:"items"`
}

// CTAContent is a call to action.
type CTAContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonLabel string `json:"button_label"`
	ButtonHref  string `json:"button_href"`
}

// ContactContent lists the ways to reach the business.
type ContactContent struct {
	Title    string `json:"title"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	WhatsApp string `json:"whatsapp"`
}

// New builds a Section from a typed content value.
func New(kind Kind, content interface{}) (Section, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return Section{}, fmt.Errorf("encoding %s section: %w", kind, err)
	}
	return Section{Kind: kind, Content: raw}, nil
}

// Render decodes the section content according to its kind and renders it.
func Render(s Section) (string, error) {
	switch s.Kind {
	case KindHero:
		var c HeroContent
		return renderAs(s, &c, "hero")
	case KindFeatures:
		var c FeaturesContent
		return renderAs(s, &c, "features")
	case KindAbout:
		var c AboutContent
		if err := decode(s, &c); err != nil {
			return "", err
		}
		body, err := Markdown(c.Body)
		if err != nil {
			return "", err
		}
		return execute("about", aboutView{Title: c.Title, Body: template.HTML(body)})
	case KindTestimonials:
		var c TestimonialsContent
		return renderAs(s, &c, "testimonials")
	case KindCTA:
		var c CTAContent
		return renderAs(s, &c, "cta")
	case KindContact:
		var c ContactContent
		return renderAs(s, &c, "contact")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

// RenderAll renders sections in order. A section that fails is replaced by
// an HTML comment naming the problem and its error is joined into the
// returned error; the other sections are still rendered.
func RenderAll(list []Section) (string, error) {
	var (
		b    strings.Builder
		errs []error
	)
	for i, s := range list {
		out, err := Render(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("section %d: %w", i, err))
			fmt.Fprintf(&b, "<!-- section %d (%s) not rendered -->\n", i, template.HTMLEscapeString(string(s.Kind)))
			continue
		}
		b.WriteString(out)
	}
	return b.String(), errors.Join(errs...)
}

type aboutView struct {
	Title string
	Body  template.HTML
}

func renderAs(s Section, v interface{}, name string) (string, error) {
	if err := decode(s, v); err != nil {
		return "", err
	}
	return execute(name, v)
}

func decode(s Section, v interface{}) error {
	if len(s.Content) == 0 {
		return nil
	}
	if err := json.Unmarshal(s.Content, v); err != nil {
		return fmt.Errorf("decoding %s section: %w", s.Kind, err)
	}
	return nil
}

func execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s section: %w", name, err)
	}
	return buf.String(), nil
}
