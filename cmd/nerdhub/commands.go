package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nerdhub/internal/app"
	"nerdhub/internal/domain/models"
	"nerdhub/internal/storage"
	filestorage "nerdhub/internal/storage/filestorage"
	"nerdhub/internal/transport/http/dto"
)

// users - отладочный список аккаунтов (без паролей).
func newUsersCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *configPath, func(ctx context.Context, a *app.App) error {
				users, err := a.User.Users(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL")
				for _, u := range users {
					fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
				}

				return w.Flush()
			})
		},
	}
}

func newProductsCmd(configPath *string) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog, optionally filtered by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter models.Category
			if category != "" {
				c, err := models.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = c
			}

			return withApp(cmd.Context(), *configPath, func(ctx context.Context, a *app.App) error {
				var (
					products []models.Product
					err      error
				)
				if filter != "" {
					products, err = a.Catalog.ListByCategory(ctx, filter)
				} else {
					products, err = a.Catalog.List(ctx)
				}
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tPRICE\tIMAGE")
				for _, p := range products {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Price, p.Image)
				}

				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "disney, marvel, starwars, playstation, xbox, lego, geral")

	return cmd
}

func newProductCmd(configPath *string) *cobra.Command {
	product := &cobra.Command{
		Use:   "product",
		Short: "Manage catalog entries",
	}

	var (
		input     dto.AddProductInput
		imageFile string
	)

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *configPath, func(ctx context.Context, a *app.App) error {
				if err := attachImage(ctx, a.Assets, input.Image, imageFile, cmd.ErrOrStderr()); err != nil {
					return err
				}

				id, err := a.Catalog.Add(ctx, input)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "product %d added\n", id)

				return nil
			})
		},
	}

	add.Flags().StringVar(&input.Title, "title", "", "product title")
	add.Flags().StringVar(&input.Price, "price", "", `display price, e.g. "R$ 1.349,90"`)
	add.Flags().StringVar(&input.Image, "image", "", "image path relative to the assets dir")
	add.Flags().StringVar(&input.Category, "category", "", "category (default geral)")
	add.Flags().StringVar(&imageFile, "image-file", "", "local file copied to --image")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("price")
	_ = add.MarkFlagRequired("image")

	product.AddCommand(add)

	return product
}

// attachImage копирует --image-file в ассеты и проверяет, что картинка читается.
// Без --image-file отсутствующий файл только предупреждение: товар добавляется.
func attachImage(ctx context.Context, assets *filestorage.LocalFileStorage, image, imageFile string, warn io.Writer) error {
	const op = "cmd.attachImage"

	if imageFile != "" {
		src, err := os.Open(imageFile)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer src.Close()

		if _, err := assets.Save(ctx, image, src); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	f, err := assets.Open(image)
	if err != nil {
		if imageFile == "" && errors.Is(err, storage.ErrFileNotFound) {
			fmt.Fprintf(warn, "warning: image %s not found in %s\n", image, assets.BaseDir())
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return f.Close()
}
