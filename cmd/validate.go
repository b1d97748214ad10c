package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zubinqayam/zq-portfolio/internal/form"
)

var validateForm string

var validateCmd = &cobra.Command{
	Use:   "validate field=value...",
	Short: "Validate form input and print the per-field results as JSON",
	Example: `  zq-portfolio validate name=Jo email=a@b.com message=hi
  zq-portfolio validate --form newsletter email=reader@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var schema form.Schema
		switch validateForm {
		case form.ContactSchema.Form:
			schema = form.ContactSchema
		case form.NewsletterSchema.Form:
			schema = form.NewsletterSchema
		default:
			return fmt.Errorf("unknown form %q: must be contact or newsletter", validateForm)
		}

		fields := form.Fields{}
		for _, arg := range args {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("argument %q is not field=value", arg)
			}
			fields[name] = value
		}

		v := form.Validate(schema, fields)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
		if !v.OK() {
			return fmt.Errorf("%d field(s) invalid", len(v.Failed()))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateForm, "form", "contact", "form to validate against (contact or newsletter)")
	rootCmd.AddCommand(validateCmd)
}
