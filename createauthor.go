package main

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tfnch/barker/models"
)

type CreateAuthorCmd struct {
	Name     string `required:"" help:"display name of the author to create"`
	Email    string `required:"" help:"email address of the author to create"`
	Password string `required:"" help:"password of the author to create"`
}

func (c *CreateAuthorCmd) Run(ctx *Context) error {
	db, err := gorm.Open(ctx.Dialector, &ctx.Config)
	if err != nil {
		return err
	}

	author, err := models.NewAuthors(db).Create(c.Name, c.Email, c.Password)
	if err != nil {
		return err
	}
	fmt.Printf("created author %d (%s)\n", author.ID, author.Email)
	return nil
}
