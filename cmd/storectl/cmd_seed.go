package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pluckd-api/internal/application/dto"
	"github.com/jhoicas/pluckd-api/internal/application/usecase"
	"github.com/jhoicas/pluckd-api/internal/infrastructure/postgres"
)

var seedFlags struct {
	file     string
	encoding string
	dryRun   bool
}

// storectl seed-products
var seedProductsCmd = &cobra.Command{
	Use:   "seed-products",
	Short: "Carga productos desde un CSV (name,price,category,description,image)",
	Long: `Carga productos desde un CSV con encabezado. Columnas reconocidas:
name, price, category, description, image (el orden es libre; name y price son obligatorias).
Las hojas exportadas desde Excel suelen venir en ISO-8859-1: usar --encoding latin1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFlags.file)
		if err != nil {
			return fmt.Errorf("abrir CSV: %w", err)
		}
		defer f.Close()

		products, err := parseProductsCSV(f, seedFlags.encoding)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if seedFlags.dryRun {
			for _, p := range products {
				fmt.Fprintf(out, "%-40s %12s  %s\n", p.Name, p.Price.StringFixed(2), p.Category)
			}
			fmt.Fprintf(out, "%d productos (sin escribir)\n", len(products))
			return nil
		}

		ctx := cmd.Context()
		pool, _, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
		for i, p := range products {
			if _, err := uc.Create(ctx, p); err != nil {
				return fmt.Errorf("fila %d (%s): %w", i+2, p.Name, err)
			}
		}
		fmt.Fprintf(out, "Cargados %d productos\n", len(products))
		return nil
	},
}

func init() {
	seedProductsCmd.Flags().StringVarP(&seedFlags.file, "file", "f", "productos.csv", "ruta del CSV")
	seedProductsCmd.Flags().StringVar(&seedFlags.encoding, "encoding", "utf8", "utf8 | latin1")
	seedProductsCmd.Flags().BoolVar(&seedFlags.dryRun, "dry-run", false, "solo muestra lo que se cargaría")
}

// parseProductsCSV lee el CSV y devuelve las solicitudes de creación. Acepta ',' o ';' como separador.
func parseProductsCSV(r io.Reader, encoding string) ([]dto.CreateProductRequest, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("encoding no soportado: %q", encoding)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	if firstLine, _, _ := strings.Cut(text, "\n"); strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		name := field(rec, "name")
		if name == "" {
			continue
		}
		// Se aceptan precios con coma decimal (12,50).
		price, err := decimal.NewFromString(strings.ReplaceAll(field(rec, "price"), ",", "."))
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("fila %d: precio inválido %q", line, field(rec, "price"))
		}
		out = append(out, dto.CreateProductRequest{
			Name:        name,
			Price:       price,
			Category:    field(rec, "category"),
			Description: field(rec, "description"),
			Image:       field(rec, "image"),
		})
	}
	return out, nil
}
