// trpcgen generates tRPC routers from a Prisma introspection document.
package main

import (
	"fmt"
	"os"

	"github.com/syssam/trpcgen/cmd/trpcgen/root"
)

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
