package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"pet-adoption-catalog/internal/adapters/catalogapi"
	"pet-adoption-catalog/internal/adapters/storage"
	"pet-adoption-catalog/internal/config"
	"pet-adoption-catalog/internal/domain/animals"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// catalog es lo que usan los comandos; lo cumplen *animals.Service y
// *catalogapi.Client.
type catalog interface {
	ListAll(ctx context.Context) ([]animals.Animal, error)
	Search(ctx context.Context, query string) ([]animals.Animal, error)
	Sample(ctx context.Context, count int) ([]animals.Animal, error)
	Create(ctx context.Context, sub animals.Submission) (string, animals.Validation, error)
}

type app struct {
	out io.Writer

	remote  string
	driver  string
	dsn     string
	timeout time.Duration
	asJSON  bool

	// open se reemplaza en tests.
	open func(ctx context.Context) (catalog, func() error, error)
}

func newApp(out io.Writer) *app {
	a := &app{out: out}
	a.open = a.openCatalog
	return a
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Administra el catálogo de animales en adopción",
		Long:          `catalogctl carga fixtures YAML, valida formularios y consulta el catálogo, contra el store local (config por entorno) o contra un servidor (--remote).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.remote, "remote", "", "URL base de un servidor del catálogo (p.ej. http://localhost:8080)")
	pf.StringVar(&a.driver, "store", "", "Driver local: memory, postgres, sqlite, redis (pisa STORE_DRIVER)")
	pf.StringVar(&a.dsn, "dsn", "", "DSN o path del store local (pisa DATABASE_URL)")
	pf.DurationVar(&a.timeout, "timeout", 10*time.Second, "Timeout por comando")
	pf.BoolVar(&a.asJSON, "json", false, "Salida en JSON")

	root.AddCommand(
		newSeedCmd(a),
		newValidateCmd(a),
		newSearchCmd(a),
		newSampleCmd(a),
		newListCmd(a),
	)
	return root
}

func (a *app) openCatalog(ctx context.Context) (catalog, func() error, error) {
	if a.remote != "" {
		c, err := catalogapi.New(a.remote, a.timeout)
		if err != nil {
			return nil, nil, err
		}
		return c, func() error { return nil }, nil
	}

	_ = godotenv.Load()
	if a.driver != "" {
		_ = os.Setenv("STORE_DRIVER", a.driver)
	}
	if a.dsn != "" {
		_ = os.Setenv("DATABASE_URL", a.dsn)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	b, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return animals.NewService(b.Provider), b.Close, nil
}

// withCatalog abre el catálogo con timeout y lo cierra al terminar fn.
func (a *app) withCatalog(cmd *cobra.Command, fn func(ctx context.Context, c catalog) error) (err error) {
	ctx := cmd.Context()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	c, closeFn, err := a.open(ctx)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx, c)
}
