package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zubinqayam/zq-portfolio/internal/form"
)

var mailtoFields struct {
	name, email, company, message string
}

var mailtoCmd = &cobra.Command{
	Use:   "mailto",
	Short: "Print the mailto link the contact form would open",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fields := form.Fields{
			form.FieldName:    mailtoFields.name,
			form.FieldEmail:   mailtoFields.email,
			form.FieldCompany: mailtoFields.company,
			form.FieldMessage: mailtoFields.message,
		}.Trimmed()

		if v := form.Validate(form.ContactSchema, fields); !v.OK() {
			for _, r := range v.Failed() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Field, r.Reason)
			}
			return fmt.Errorf("contact fields are invalid")
		}
		fmt.Fprintln(cmd.OutOrStdout(), form.BuildMailto(cfg.Contact.Address, fields, cfg.Contact.Signature))
		return nil
	},
}

func init() {
	f := mailtoCmd.Flags()
	f.StringVar(&mailtoFields.name, "name", "", "sender name")
	f.StringVar(&mailtoFields.email, "email", "", "sender email")
	f.StringVar(&mailtoFields.company, "company", "", "sender company (optional)")
	f.StringVar(&mailtoFields.message, "message", "", "message body")
	rootCmd.AddCommand(mailtoCmd)
}
