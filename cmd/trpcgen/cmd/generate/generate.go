// Package generate implements the generate command.
package generate

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/trpcgen/cmd/trpcgen/settings"
	"github.com/syssam/trpcgen/compiler"
	"github.com/syssam/trpcgen/compiler/gen"
)

// Command returns the generate command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the routers once",
		Example: `  trpcgen generate --doc prisma/dmmf.json
  trpcgen generate -d dmmf.yaml -o src/server/generated --set withShield=false
  prisma-dmmf | trpcgen generate -d - --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := settings.New(cmd.Flags())
			if err != nil {
				return err
			}
			s, err := settings.Decode(v, cmd.Flags())
			if err != nil {
				return err
			}
			l, err := s.Logger("generate")
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()
			return Run(cmd.Context(), s, l)
		},
	}
	settings.AddFlags(cmd.Flags())
	return cmd
}

// Run generates the routers described by s. Each run is tagged with a fresh
// run_id.
func Run(ctx context.Context, s *settings.Settings, l *zap.Logger) error {
	l = l.With(zap.String("run_id", uuid.NewString()), zap.String("doc", s.Doc))
	opts, err := s.Options(l)
	if err != nil {
		return err
	}
	if err := compiler.Generate(ctx, s.Doc, opts...); err != nil {
		l.Error("generation failed", zap.String("category", gen.Category(err)), zap.Error(err))
		return err
	}
	return nil
}
