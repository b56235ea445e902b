package email

// PreviewData holds sample template data for the email-preview command.
var PreviewData = map[Template]any{
	TemplateMagicLink: MagicLinkData{
		Link:         "https://portal.example.com/portal?token=preview",
		AccessLabel:  "Boletos",
		CompanyName:  "Administradora Exemplo",
		ValidMinutes: 15,
	},
}
