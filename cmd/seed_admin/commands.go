package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type seedCmd struct {
	username string
	password string
	output   string
	cost     int
	stdout   io.Writer
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "genera un upsert SQL del usuario ADMIN con password bcrypt" }
func (*seedCmd) Usage() string {
	return `seed -u <username> -p <password> [-o <salida.sql>]

  Escribe un INSERT ... ON CONFLICT que crea el usuario o lo promueve a ADMIN
  reemplazando su password.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username del ADMIN")
	f.StringVar(&c.password, "p", "", "password en claro (mínimo 6 caracteres)")
	f.StringVar(&c.output, "o", "", "archivo de salida; por defecto seed_admin.sql en la raíz del módulo")
	f.IntVar(&c.cost, "cost", bcrypt.DefaultCost, "costo bcrypt")
}

func (c *seedCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	username := strings.TrimSpace(c.username)
	if username == "" || len(c.password) < minPasswordLength {
		fmt.Fprintln(os.Stderr, "username requerido y password de al menos 6 caracteres")
		return subcommands.ExitUsageError
	}
	outPath := c.output
	if outPath == "" {
		outPath = filepath.Join(findModuleRoot(), "seed_admin.sql")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.password), c.cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar hash: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := writeSeed(out, username, string(hash)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(writerOr(c.stdout), "Generado %s para el usuario ADMIN %q\n", outPath, username)
	return subcommands.ExitSuccess
}

type hashCmd struct {
	password string
	cost     int
	stdout   io.Writer
}

func (*hashCmd) Name() string     { return "hash" }
func (*hashCmd) Synopsis() string { return "imprime el hash bcrypt de un password" }
func (*hashCmd) Usage() string {
	return `hash -p <password>

  Imprime el hash bcrypt para cargarlo a mano en users.password_hash.
`
}

func (c *hashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "p", "", "password en claro")
	f.IntVar(&c.cost, "cost", bcrypt.DefaultCost, "costo bcrypt")
}

func (c *hashCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.password) < minPasswordLength {
		fmt.Fprintln(os.Stderr, "password de al menos 6 caracteres")
		return subcommands.ExitUsageError
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.password), c.cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar hash: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(writerOr(c.stdout), string(hash))
	return subcommands.ExitSuccess
}

// writeSeed escribe un upsert idempotente: si el usuario existe se promueve a ADMIN y se
// reemplaza su password.
func writeSeed(w io.Writer, username, hash string) error {
	_, err := fmt.Fprintf(w,
		"-- Usuario ADMIN inicial\n"+
			"INSERT INTO users (username, password_hash, role)\n"+
			"VALUES ('%s', '%s', 'ADMIN')\n"+
			"ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = 'ADMIN';\n",
		escapeSQL(username), escapeSQL(hash),
	)
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
