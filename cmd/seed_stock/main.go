// seed_stock carga stock inicial desde un CSV part_number,batch_number,quantity.
// Cada fila pasa por IntakeStock: si el lote ya existe la cantidad se suma.
//
// Uso: go run ./cmd/seed_stock [--latin1] [--skip-header] stock.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

type seedRow struct {
	line        int
	partNumber  string
	batchNumber string
	quantity    int64
}

func main() {
	latin1 := pflag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	skipHeader := pflag.Bool("skip-header", true, "ignorar la primera fila")
	pflag.Parse()

	csvPath := "stock.csv"
	if pflag.NArg() > 0 {
		csvPath = pflag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, App: "seed_stock"})

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := parseRows(r, *skipHeader)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledger := inventory.NewStockLedger(postgres.NewTxRunner(pool), postgres.NewRepos(pool))

	var failed int
	for _, row := range rows {
		if _, err := ledger.IntakeStock(ctx, row.partNumber, row.batchNumber, row.quantity); err != nil {
			failed++
			log.Error().Err(err).Int("line", row.line).Str("part_number", row.partNumber).Msg("fila rechazada")
		}
	}
	log.Info().Int("rows", len(rows)).Int("failed", failed).Str("path", csvPath).Msg("carga de stock terminada")
	if failed > 0 {
		os.Exit(1)
	}
}

// parseRows lee filas part_number,batch_number,quantity. quantity vacía = 0.
// Las filas en blanco se ignoran (encoding/csv las salta); cualquier otra fila mal formada aborta la carga.
func parseRows(r io.Reader, skipHeader bool) ([]seedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []seedRow
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if first && skipHeader {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 || len(rec) > 3 {
			return nil, fmt.Errorf("línea %d: se esperan 2 o 3 columnas, hay %d", line, len(rec))
		}
		row := seedRow{
			line:        line,
			partNumber:  strings.TrimSpace(rec[0]),
			batchNumber: strings.TrimSpace(rec[1]),
		}
		if len(rec) == 3 && strings.TrimSpace(rec[2]) != "" {
			q, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 64)
			if err != nil || q < 0 {
				return nil, fmt.Errorf("línea %d: quantity inválida %q", line, rec[2])
			}
			row.quantity = q
		}
		out = append(out, row)
	}
}
