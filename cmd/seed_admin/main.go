// seed_admin herramienta de línea de comandos para preparar usuarios ADMIN.
//
//	go run ./cmd/seed_admin seed -u admin -p secreto [-o salida.sql]
//	go run ./cmd/seed_admin hash -p secreto
//
// seed escribe por defecto seed_admin.sql en la raíz del módulo. El archivo contiene el
// hash, no el password; aun así no debe versionarse.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&seedCmd{}, "usuarios")
	subcommands.Register(&hashCmd{}, "usuarios")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
