package main

import (
	"context"
	"fmt"
	"strings"

	"pet-adoption-catalog/internal/domain/animals"
	"pet-adoption-catalog/internal/platform/pagination"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Valida e inserta los animales de un archivo YAML",
		Long:  `Cada fixture se valida por separado; los válidos se insertan y los rechazados se reportan con sus errores por campo.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixtures, err := loadFixtures(file)
			if err != nil {
				return err
			}

			return a.withCatalog(cmd, func(ctx context.Context, c catalog) error {
				rejected := 0
				for _, f := range fixtures {
					id, v, err := c.Create(ctx, f.Sub)
					if err != nil {
						return fmt.Errorf("%s: %w", f.Label(), err)
					}
					if !v.OK() {
						rejected++
						printRejected(a.out, f.Label(), v.Errors)
						continue
					}
					fmt.Fprintf(a.out, "ok   %s -> %s\n", f.Label(), id)
				}

				fmt.Fprintf(a.out, "%d inserted, %d rejected\n", len(fixtures)-rejected, rejected)
				if rejected > 0 {
					return fmt.Errorf("%d fixture(s) rejected", rejected)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Archivo YAML con los animales")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Valida un archivo YAML sin insertar nada",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fixtures, err := loadFixtures(file)
			if err != nil {
				return err
			}

			rejected := 0
			for _, f := range fixtures {
				v := animals.Validate(f.Sub)
				if !v.OK() {
					rejected++
					printRejected(a.out, f.Label(), v.Errors)
					continue
				}
				fmt.Fprintf(a.out, "ok   %s\n", f.Label())
			}

			if rejected > 0 {
				return fmt.Errorf("%d of %d fixture(s) invalid", rejected, len(fixtures))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Archivo YAML con los animales")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Busca en nombre, especie, raza, descripción y ciudad",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimSpace(strings.Join(args, " "))
			return a.withCatalog(cmd, func(ctx context.Context, c catalog) error {
				items, err := c.Search(ctx, q)
				if err != nil {
					return err
				}
				return a.printAnimals(items)
			})
		},
	}
}

func newSampleCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Muestra aleatoria sin repetidos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCatalog(cmd, func(ctx context.Context, c catalog) error {
				items, err := c.Sample(ctx, count)
				if err != nil {
					return err
				}
				return a.printAnimals(items)
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", animals.DefaultSampleSize, "Cantidad de animales")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista el catálogo por páginas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withCatalog(cmd, func(ctx context.Context, c catalog) error {
				all, err := c.ListAll(ctx)
				if err != nil {
					return err
				}

				items, totalPages := pagination.Paginate(all, page, size)
				if err := a.printAnimals(items); err != nil {
					return err
				}
				if !a.asJSON {
					fmt.Fprintf(a.out, "page %d/%d (%d animals)\n", page, totalPages, len(all))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Número de página (desde 1)")
	cmd.Flags().IntVar(&size, "page-size", 12, "Animales por página")
	return cmd
}
