package view

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/zubinqayam/zq-portfolio/internal/content"
)

func document(title string, body ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(title)),
				Link(Rel("stylesheet"), Href("/static/style.css")),
			),
			Body(body...),
		),
	)
}

// AdminLogin renders the admin sign-in page. errMsg is shown above the form when set.
func AdminLogin(errMsg string) g.Node {
	return document("Admin Login",
		Main(
			Class("container mx-auto px-4 py-16 max-w-sm"),
			H1(Class("text-2xl font-semibold"), g.Text("Admin Login")),
			g.If(errMsg != "", P(Class("form-error text-red-600"), g.Attr("role", "alert"), g.Text(errMsg))),
			Form(
				Method("post"),
				Action("/admin/login"),
				Class("card p-5 grid gap-3"),
				Label(For("username"), g.Text("Username")),
				Input(ID("username"), Name("username"), Type("text"), Required(), g.Attr("autocomplete", "username")),
				Label(For("password"), g.Text("Password")),
				Input(ID("password"), Name("password"), Type("password"), Required(), g.Attr("autocomplete", "current-password")),
				Button(Type("submit"), Class("btn btn-primary"), g.Text("Sign in")),
			),
		),
	)
}

// PrivacyPage renders the privacy policy as a standalone page.
func PrivacyPage(p *content.Profile) g.Node {
	return document("Privacy Policy - "+p.Name,
		Main(
			Class("container mx-auto px-4 py-16 prose"),
			g.Raw(p.PrivacyHTML),
			P(A(Href("/"), g.Text("Back to portfolio"))),
		),
	)
}
