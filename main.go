package main

import (
	"github.com/alecthomas/kong"
	"gorm.io/gorm"
)

type Context struct {
	Debug bool

	gorm.Config
	gorm.Dialector
}

// newContext builds the shared command context. TranslateError makes gorm
// surface driver errors as gorm sentinels; duplicate-mention detection
// depends on seeing gorm.ErrDuplicatedKey.
func newContext(debug bool, dsn string) *Context {
	return &Context{
		Debug: debug,
		Config: gorm.Config{
			TranslateError: true,
		},
		Dialector: newDialector(dsn),
	}
}

var cli struct {
	Debug       bool   `help:"Enable debug mode."`
	DatabaseURL string `env:"DATABASE_URL" default:"barker.db" help:"Database DSN."`

	Serve        ServeCmd        `cmd:"" help:"Serve the site."`
	AutoMigrate  AutoMigrateCmd  `cmd:"" help:"Create or update the database schema."`
	CreateAuthor CreateAuthorCmd `cmd:"" help:"Create an author."`
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run(newContext(cli.Debug, cli.DatabaseURL))
	ctx.FatalIfErrorf(err)
}
