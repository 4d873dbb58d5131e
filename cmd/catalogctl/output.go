package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"pet-adoption-catalog/internal/domain/animals"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// newTable arma una tabla con el renderer de w: sin TTY (pipes, tests) sale
// sin colores.
func newTable(w io.Writer, headers ...string) *table.Table {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	border := r.NewStyle().Foreground(lipgloss.Color("240"))

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...)
}

func (a *app) printAnimals(items []animals.Animal) error {
	if a.asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "no animals")
		return nil
	}

	t := newTable(a.out, "ID", "NAME", "SPECIES", "BREED", "AGE", "CITY", "ADDED")
	for _, it := range items {
		t.Row(it.ID, it.Name, it.Species, it.Breed, strconv.Itoa(it.Age), it.City, it.DateAdded)
	}
	_, err := fmt.Fprintln(a.out, t.Render())
	return err
}

// printRejected ordena por campo para que la salida sea estable.
func printRejected(w io.Writer, label string, errs animals.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	t := newTable(w, "FIELD", "ERROR")
	for _, f := range fields {
		t.Row(f, errs[f])
	}

	fmt.Fprintf(w, "FAIL %s\n", label)
	fmt.Fprintln(w, t.Render())
}
