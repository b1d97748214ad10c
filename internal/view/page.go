// Package view renders the portfolio pages and their HTMX fragments.
package view

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/zubinqayam/zq-portfolio/internal/content"
)

// PageState carries the request-scoped parts of a page.
type PageState struct {
	Contact    FormState
	Newsletter FormState
	Year       int
}

// Page composes the full document for variant v.
func Page(v content.Variant, p *content.Profile, s PageState) g.Node {
	extended := v == content.Extended

	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(p.Title)),
				Link(Rel("stylesheet"), Href("/static/style.css")),
				Script(Src("https://unpkg.com/htmx.org@2.0.4"), Defer()),
				Script(Src("/static/app.js"), Defer()),
			),
			Body(
				Class("variant-"+string(v)),
				g.Attr("data-variant", string(v)),
				navBar(p),
				hero(p),
				imageStrip(p.Strip),
				about(p),
				g.If(extended, experience(p.Experience)),
				projects(p),
				skills(p, extended),
				certs(p.Certs),
				g.If(extended, testimonials(p.Testimonials)),
				g.If(extended, newsletter(p, s.Newsletter)),
				contact(p, s.Contact),
				footer(p, s.Year, extended),
				g.If(extended, privacyModal(p)),
			),
		),
	)
}

func navBar(p *content.Profile) g.Node {
	return Div(
		ID("nav"),
		Class("sticky top-0 z-40 backdrop-blur bg-white/70 border-b border-slate-200"),
		Div(
			Class("container mx-auto px-4 h-14 flex items-center gap-6"),
			A(Href("#about"), Class("font-semibold tracking-tight"), g.Text(p.Name)),
			Button(
				ID("nav-toggle"),
				Class("md:hidden ml-auto"),
				Type("button"),
				g.Attr("aria-controls", "nav-menu"),
				g.Attr("aria-expanded", "false"),
				g.Text("Menu"),
			),
			Nav(
				ID("nav-menu"),
				Class("ml-auto hidden md:flex gap-5 text-sm"),
				g.Map(p.Nav, func(l content.Link) g.Node {
					return A(Href(l.Href), Class("nav__link hover:underline underline-offset-4"), g.Text(l.Label))
				}),
			),
		),
	)
}

// image renders an <img> that hides itself when it fails to load.
func image(img content.Image, class string) g.Node {
	return Img(
		Src(img.Src),
		Alt(img.Alt),
		Class(class),
		g.Attr("loading", "lazy"),
		g.Attr("onerror", "this.style.display='none'"),
	)
}

func hero(p *content.Profile) g.Node {
	c := p.Contact
	return Header(
		ID("home"),
		Class("relative"),
		image(p.HeroImage, "w-full h-[44vh] md:h-[56vh] object-cover"),
		Div(Class("absolute inset-0 bg-gradient-to-t from-white via-white/70 to-transparent")),
		Div(
			Class("container mx-auto px-4"),
			Div(
				Class("relative -mt-16 md:-mt-20 max-w-3xl card bg-white shadow-soft p-6"),
				Div(Class("text-xs uppercase tracking-[0.18em] text-slate-500"), g.Text(p.Kicker)),
				H1(Class("text-3xl md:text-4xl font-semibold tracking-tight mt-1"), g.Text(p.Headline)),
				P(Class("mt-3 text-slate-600"), g.Textf("Based in %s • %s • %s", c.Location, c.Email, c.Phone)),
				Div(Class("mt-4 flex flex-wrap gap-3 text-sm"), pills(c.Links)),
			),
		),
	)
}

func pills(links []content.Link) g.Node {
	return g.Map(links, func(l content.Link) g.Node {
		return A(Href(l.Href), Target("_blank"), Rel("noreferrer"), Class("pill px-3 py-1.5 hover:bg-slate-50"), g.Text(l.Label))
	})
}

func imageStrip(imgs []content.Image) g.Node {
	return Div(
		Class("container mx-auto px-4 mt-10"),
		Div(
			Class("grid grid-cols-2 md:grid-cols-3 gap-3"),
			g.Map(imgs, func(img content.Image) g.Node {
				return image(img, "h-28 md:h-32 w-full object-cover rounded-lg")
			}),
		),
	)
}

// section is the shared section frame. data-reveal marks it for the
// reveal-on-scroll observer.
func section(id, title, kicker string, children ...g.Node) g.Node {
	return Section(
		ID(id),
		Class("py-12 md:py-16"),
		g.Attr("data-reveal"),
		Div(
			Class("container mx-auto px-4"),
			Div(
				Class("mb-6"),
				g.If(kicker != "", Div(Class("text-xs uppercase tracking-[0.18em] text-slate-500 mb-2"), g.Text(kicker))),
				H2(Class("text-2xl md:text-3xl font-semibold tracking-tight"), g.Text(title)),
			),
			g.Group(children),
		),
	)
}

func about(p *content.Profile) g.Node {
	return section("about", "About", "Profile",
		Div(
			Class("grid md:grid-cols-[1.1fr,0.9fr] gap-6 items-start"),
			Div(Class("card p-5 shadow-soft prose text-slate-700 leading-relaxed"), g.Raw(p.AboutHTML)),
			Div(
				Class("grid grid-cols-3 gap-3"),
				g.Map(p.Stats, stat),
			),
		),
	)
}

func stat(s content.Stat) g.Node {
	value := g.Text(s.Value)
	if s.Target > 0 {
		value = Span(Class("stat-number"), g.Attr("data-target", fmt.Sprint(s.Target)), g.Text(s.Value))
	}
	return Div(
		Class("card p-4 shadow-soft"),
		Div(Class("text-xs uppercase tracking-wide text-slate-500"), g.Text(s.Label)),
		Div(Class("mt-1 text-2xl font-semibold"), value),
	)
}

func experience(roles []content.Role) g.Node {
	return section("experience", "Experience", "Career",
		Div(
			Class("experience__timeline space-y-4"),
			g.Map(roles, func(r content.Role) g.Node {
				return Article(
					Class("card p-5 shadow-soft"),
					g.Attr("data-reveal"),
					H3(Class("text-lg font-semibold tracking-tight"), g.Text(r.Title)),
					Div(Class("text-sm text-slate-500 mt-0.5"), g.Textf("%s • %s", r.Org, r.Period)),
					P(Class("mt-3 text-slate-700"), g.Text(r.Summary)),
				)
			}),
		),
	)
}

func projects(p *content.Profile) g.Node {
	return section("projects", "Projects", "Selected work",
		Div(
			Class("grid md:grid-cols-2 gap-4"),
			g.Map(p.Projects, func(it content.Project) g.Node {
				return Article(
					Class("project-card card p-5 shadow-soft"),
					g.Attr("data-reveal"),
					H3(Class("text-lg font-semibold tracking-tight"), g.Text(it.Title)),
					Div(Class("text-sm text-slate-500 mt-0.5"), g.Text(it.Subtitle)),
					P(Class("mt-3 text-slate-700"), g.Text(it.Body)),
				)
			}),
		),
		Div(
			Class("mt-6 grid grid-cols-1 md:grid-cols-3 gap-3"),
			g.Map(p.ProjectImages, func(img content.Image) g.Node {
				return image(img, "rounded-lg shadow-soft")
			}),
		),
	)
}

func groups(gs []content.Group, cardClass string) g.Node {
	return Div(
		Class("grid md:grid-cols-3 gap-4"),
		g.Map(gs, func(gr content.Group) g.Node {
			return Div(
				Class(cardClass+" card p-5 shadow-soft"),
				H3(Class("font-medium"), g.Text(gr.Title)),
				Ul(
					Class("mt-2 text-slate-700 text-sm space-y-1"),
					g.Map(gr.Items, func(x string) g.Node { return Li(g.Text("• " + x)) }),
				),
			)
		}),
	)
}

func skills(p *content.Profile, extended bool) g.Node {
	return section("skills", "Skills", "Core strengths",
		groups(p.Skills, "skill-pillar"),
		g.If(extended && len(p.SkillLevels) > 0, Div(
			Class("mt-6 space-y-3"),
			g.Map(p.SkillLevels, func(sk content.Skill) g.Node {
				return Div(
					Class("skill"),
					Div(Class("flex justify-between text-sm"), Span(g.Text(sk.Name)), Span(g.Textf("%d%%", sk.Level))),
					Div(
						Class("skill-bar h-2 bg-slate-100 rounded"),
						Div(Class("skill-progress h-2 rounded"), g.Attr("data-width", fmt.Sprint(sk.Level))),
					),
				)
			}),
		)),
		Div(Class("mt-6"), image(p.SkillsImage, "w-full h-48 md:h-56 object-cover rounded-lg shadow-soft")),
	)
}

func certs(gs []content.Group) g.Node {
	return section("certs", "Certifications", "Verified learning", groups(gs, "cert-badge"))
}

func testimonials(ts []content.Testimonial) g.Node {
	return section("testimonials", "Testimonials", "What partners say",
		Div(
			Class("grid md:grid-cols-2 gap-4"),
			g.Map(ts, func(t content.Testimonial) g.Node {
				return Figure(
					Class("testimonial-card card p-5 shadow-soft"),
					g.Attr("data-reveal"),
					BlockQuote(Class("text-slate-700"), g.Text(t.Quote)),
					FigCaption(Class("mt-3 text-sm text-slate-500"), g.Text(t.Source)),
				)
			}),
		),
	)
}

func newsletter(p *content.Profile, s FormState) g.Node {
	return section("newsletter", "Newsletter", "Stay in touch",
		Div(
			Class("grid md:grid-cols-2 gap-4 items-start"),
			P(Class("text-slate-700"), g.Text(p.NewsletterBlurb)),
			NewsletterForm(s),
		),
	)
}

func contact(p *content.Profile, s FormState) g.Node {
	c := p.Contact
	return section("contact", "Contact", "Let's connect",
		Div(
			Class("grid md:grid-cols-2 gap-4"),
			Div(
				Class("card p-5 shadow-soft"),
				Div(
					Class("text-sm text-slate-700 space-y-2"),
					Div(g.Text(c.Location)),
					Div(A(Href("mailto:"+c.Email), Class("underline decoration-slate-300"), g.Text(c.Email))),
					Div(A(Href(c.PhoneHref), Class("underline decoration-slate-300"), g.Text(c.Phone))),
					Div(Class("flex gap-3 pt-2"), pills(c.Links)),
					g.Iff(p.Resume != nil, func() g.Node {
						return Div(
							Class("pt-2"),
							A(
								Href(p.Resume.Href),
								Class("btn btn-secondary"),
								g.Attr("download", p.Resume.FileName),
								g.Attr("data-track", "download"),
								g.Text(p.Resume.Label),
							),
						)
					}),
				),
			),
			ContactForm(s),
		),
	)
}

func footer(p *content.Profile, year int, extended bool) g.Node {
	return Footer(
		Class("mt-8 border-t border-slate-200"),
		Div(
			Class("container mx-auto px-4 py-8 text-sm text-slate-600"),
			g.Text(p.FooterText(year)),
			g.If(extended, g.Group([]g.Node{
				g.Text(" • "),
				A(Href("#privacy"), ID("privacy-link"), g.Attr("data-modal", "privacyModal"), g.Text("Privacy Policy")),
			})),
		),
	)
}

func privacyModal(p *content.Profile) g.Node {
	return Div(
		ID("privacyModal"),
		Class("modal hidden"),
		g.Attr("role", "dialog"),
		g.Attr("aria-modal", "true"),
		g.Attr("aria-labelledby", "privacy"),
		Div(ID("privacyOverlay"), Class("modal__overlay")),
		Div(
			Class("modal__content card p-6"),
			Button(ID("closePrivacy"), Type("button"), Class("modal__close"), g.Attr("aria-label", "Close"), g.Text("×")),
			Div(Class("prose"), g.Raw(p.PrivacyHTML)),
		),
	)
}
