package root

import (
	"github.com/syssam/trpcgen/cmd/trpcgen/cmd/generate"
	"github.com/syssam/trpcgen/cmd/trpcgen/cmd/watch"
)

func init() {
	Root().AddCommand(generate.Command())
	Root().AddCommand(watch.Command())
}
