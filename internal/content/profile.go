// Package content holds the portfolio copy for both page variants.
package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Variant selects which page is rendered.
type Variant string

const (
	Minimal  Variant = "minimal"
	Extended Variant = "extended"
)

// ParseVariant accepts "minimal" or "extended" in any case.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Minimal, Extended:
		return v, nil
	}
	return "", fmt.Errorf("unknown page variant %q", s)
}

// ResumeFileName is the download name of the resume.
const ResumeFileName = "Zubin_Qayam_Resume.pdf"

type Link struct {
	Label string
	Href  string
}

type Image struct {
	Src string
	Alt string
}

// Stat is a headline figure. Target drives the animated counter on the
// extended page; zero means Value is shown as-is.
type Stat struct {
	Label  string
	Value  string
	Target int
}

type Project struct {
	Title    string
	Subtitle string
	Body     string
}

// Group is a titled list: a skill pillar or a certification issuer.
type Group struct {
	Title string
	Items []string
}

// Skill is a proficiency bar, Level in percent.
type Skill struct {
	Name  string
	Level int
}

type Role struct {
	Title   string
	Org     string
	Period  string
	Summary string
}

type Testimonial struct {
	Quote  string
	Source string
}

type Contact struct {
	Location  string
	Email     string
	Phone     string
	PhoneHref string
	Links     []Link
}

type Resume struct {
	Label    string
	Href     string
	FileName string
}

// Profile is everything a page variant shows. HTML fields are rendered
// from markdown when the profile is built.
type Profile struct {
	Variant  Variant
	Name     string
	Title    string
	Kicker   string
	Headline string
	Contact  Contact
	Nav      []Link

	HeroImage     Image
	Strip         []Image
	AboutHTML     string
	Stats         []Stat
	Projects      []Project
	ProjectImages []Image
	Skills        []Group
	SkillLevels   []Skill
	SkillsImage   Image
	Certs         []Group

	// Extended variant only.
	Experience      []Role
	Testimonials    []Testimonial
	Resume          *Resume
	NewsletterBlurb string
	PrivacyHTML     string
	SectionTitles   map[string]string
}

// Extended reports whether the extended-only sections are shown.
func (p *Profile) Extended() bool { return p.Variant == Extended }

// FooterText is the footer line for the given year.
func (p *Profile) FooterText(year int) string {
	labels := make([]string, 0, len(p.Nav))
	for _, l := range p.Nav {
		labels = append(labels, l.Label)
	}
	return fmt.Sprintf("© %d %s • Clean, minimal portfolio • %s", year, p.Name, strings.Join(labels, " · "))
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown renders src to HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// Load builds the profile for v.
func Load(v Variant) (*Profile, error) {
	p := base()
	p.Variant = v

	about := AboutMe
	if v == Extended {
		about += "\n\n" + AboutExtended
	}
	var err error
	if p.AboutHTML, err = Markdown(about); err != nil {
		return nil, fmt.Errorf("about: %w", err)
	}

	if v != Extended {
		return p, nil
	}

	p.Title = "Zubin Qayam - Corporate Business Development & Marketing Executive"
	p.Nav = []Link{
		{Label: "About", Href: "#about"},
		{Label: "Experience", Href: "#experience"},
		{Label: "Projects", Href: "#projects"},
		{Label: "Skills", Href: "#skills"},
		{Label: "Certifications", Href: "#certs"},
		{Label: "Contact", Href: "#contact"},
	}
	p.Stats = append(p.Stats,
		Stat{Label: "Major projects", Value: fmt.Sprint(len(p.Projects)), Target: len(p.Projects)},
		Stat{Label: "Certifications", Value: fmt.Sprint(countItems(p.Certs)), Target: countItems(p.Certs)},
	)
	p.SkillLevels = []Skill{
		{Name: "Partnership structuring", Level: 95},
		{Name: "Stakeholder engagement", Level: 92},
		{Name: "Account-based marketing", Level: 88},
		{Name: "CRM & analytics platforms", Level: 85},
		{Name: "Cloud & AI tooling", Level: 75},
	}
	p.Experience = []Role{
		{
			Title:   "Corporate Business Development & Marketing",
			Org:     "Industrial healthcare, Sohar",
			Period:  "Present",
			Summary: "Leads partnership pipelines with port, freezone and industrial tenants, and owns the corporate marketing programme that supports them.",
		},
		{
			Title:   "Business Development",
			Org:     "Healthcare services, Al Batinah",
			Period:  "Earlier",
			Summary: "Built account plans for industrial clients and turned site health requirements into service proposals.",
		},
	}
	p.Testimonials = []Testimonial{
		{Quote: "Clear on what the site needed and clear on how to get there. The healthcare readiness plan moved faster than any we had seen.", Source: "Port operations partner"},
		{Quote: "Brought procurement, HSE and the board to the same table with one proposal.", Source: "Freezone tenant, HSE lead"},
	}
	p.Resume = &Resume{Label: "Download resume", Href: "/resume", FileName: ResumeFileName}
	p.NewsletterBlurb = NewsletterBlurb
	if p.PrivacyHTML, err = Markdown(PrivacyPolicy); err != nil {
		return nil, fmt.Errorf("privacy: %w", err)
	}
	p.SectionTitles = map[string]string{
		"home":       "Zubin Qayam - Corporate Business Development & Marketing Executive",
		"about":      "About Zubin Qayam - Business Development Expert",
		"experience": "Experience - Zubin Qayam Portfolio",
		"projects":   "Major Projects - Zubin Qayam",
		"skills":     "Skills & Expertise - Zubin Qayam",
		"contact":    "Contact Zubin Qayam - Business Development",
	}
	return p, nil
}

func countItems(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}

func base() *Profile {
	links := []Link{
		{Label: "LinkedIn", Href: "https://www.linkedin.com/in/zubin-qayam-p-m-b22bb7170"},
		{Label: "Google Developer", Href: "https://g.dev/zubinqayam"},
		{Label: "Credly", Href: "https://www.credly.com/users/zubin-qayam/badges"},
	}
	return &Profile{
		Name:     "Zubin Qayam",
		Title:    "Zubin Qayam - Portfolio",
		Kicker:   "Corporate BD & Marketing",
		Headline: "Unlocking material revenue impact across Oman's industrial healthcare",
		Contact: Contact{
			Location:  "Sohar, Oman",
			Email:     "zubin.qayam@outlook.com",
			Phone:     "+968 7857 2706",
			PhoneHref: "tel:+96878572706",
			Links:     links,
		},
		Nav: []Link{
			{Label: "About", Href: "#about"},
			{Label: "Projects", Href: "#projects"},
			{Label: "Skills", Href: "#skills"},
			{Label: "Certifications", Href: "#certs"},
			{Label: "Contact", Href: "#contact"},
		},
		HeroImage: Image{Src: "assets/hero-port.jpg", Alt: "Port of Sohar, aerial HD"},
		Strip: []Image{
			{Src: "assets/strip-ship.jpg", Alt: "Ship in port"},
			{Src: "assets/strip-industrial.jpg", Alt: "Industrial plant"},
			{Src: "assets/panel-strategic.png", Alt: "Strategic industry position"},
		},
		Stats: []Stat{
			{Label: "Location", Value: "Sohar, Oman"},
			{Label: "Focus", Value: "Industrial Healthcare"},
			{Label: "Approach", Value: "Partnership-led"},
		},
		Projects: []Project{
			{Title: "Sohar Freezone Healthcare Enablement", Subtitle: "Vision 2040 alignment", Body: ProjectFreezone},
			{Title: "Sohar Port South Development", Subtitle: "Healthcare readiness blueprint", Body: ProjectPortSouth},
			{Title: "Shinas Port Modernization", Subtitle: "Community health & awareness", Body: ProjectShinas},
			{Title: "United Solar • Corporate Partnership", Subtitle: "Industrial healthcare model", Body: ProjectUnitedSolar},
			{Title: "Renewable Energy • Corporate Engagement", Subtitle: "Scale-up facilitation", Body: ProjectRenewables},
			{Title: "Marsa LNG • Strategic Collaboration", Subtitle: "Renewables-powered facility context", Body: ProjectMarsaLNG},
		},
		ProjectImages: []Image{
			{Src: "assets/panel-badges.png", Alt: "Executive partnership badges"},
			{Src: "assets/panel-healthcare.png", Alt: "Healthcare transformation emblems"},
			{Src: "assets/panel-vision.png", Alt: "Vision 2040 strategic squares"},
		},
		Skills: []Group{
			{Title: "Business Development", Items: []string{"Partnership structuring", "Account growth", "Stakeholder engagement"}},
			{Title: "Corporate Marketing", Items: []string{"ABM programs", "Value propositions", "Campaign orchestration"}},
			{Title: "Data & Platforms", Items: []string{"HubSpot / Salesforce", "Power BI, GA4", "Copilot, GCP, Azure"}},
		},
		SkillsImage: Image{Src: "assets/vision-hero.jpg", Alt: "Oman Vision 2040"},
		Certs: []Group{
			{Title: "Microsoft Learn", Items: []string{"Responsible AI with GitHub Copilot", "Explore Core Data Concepts"}},
			{Title: "Google Developer", Items: []string{"Google Cloud Innovator", "AI-powered market analysis app"}},
			{Title: "HubSpot Academy", Items: []string{"Inbound Marketing", "Contextual Marketing & ABM"}},
		},
	}
}
