package content

var (
	AboutMe = `Corporate business development and marketing professional focused on **Oman's industrial
healthcare ecosystem**. I translate complex stakeholder landscapes into clear partnership structures,
operational health readiness, and brand trust, ultimately unlocking material revenue impact for the
organisations I work with.`

	AboutExtended = `Over the last decade I have worked alongside port authorities, freezone operators and
industrial tenants to put healthcare where the workforce is.

- Partnership-led growth across Sohar Port, Freezone and the wider Al Batinah region
- Account-based marketing that speaks to boards, HSE leads and procurement in one voice
- Data-backed pipelines built on HubSpot, Salesforce and Power BI`

	ProjectFreezone = `Developed a healthcare infrastructure pipeline through strong corporate relationships with
zone stakeholders and tenants, establishing Vision 2040 leadership in service readiness.`

	ProjectPortSouth = `Framed on-site medical coverage and referral pathways to scale alongside port capacity
expansion, ensuring safe, sustainable operations.`

	ProjectShinas = `Focused on medical services and health awareness initiatives to support modernization for
trade, tourism, and light industry.`

	ProjectUnitedSolar = `Structured partner pathways and site medical capabilities for polysilicon partners in
the region.`

	ProjectRenewables = `Positioned healthcare ecosystem support for renewable energy workforce development and
operational readiness.`

	ProjectMarsaLNG = `Outlined healthcare framework principles tailored to a renewables-powered LNG operation,
from on-site response to tertiary pathways.`

	NewsletterBlurb = `Quarterly notes on industrial healthcare, partnership models and marketing in Oman.
No spam; unsubscribe any time.`

	PrivacyPolicy = `## Privacy

This site stores as little as it can.

- Visits are counted with a **one-way hash** of your IP address, never the address itself.
- If your browser sends *Do Not Track*, the visit is not recorded at all.
- Visit records are deleted after twelve months.
- Contact messages and newsletter sign-ups are kept only to answer you.

Questions: [zubin.qayam@outlook.com](mailto:zubin.qayam@outlook.com)`
)
