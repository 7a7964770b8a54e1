// Package pdf genera el reporte de productos de un agricultor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del agricultor  │  Fecha de emisión         │
//	│  DATOS: Dirección / Teléfono                                │
//	│  FILTRO: Categoría / Desde / Hasta                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Categoría | Fecha de producción          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total por categoría                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/AgroRegistro-api/internal/application/usecase"
	"github.com/jhoicas/AgroRegistro-api/internal/domain/entity"
)

var _ usecase.ProductReportGenerator = (*MarotoReportGenerator)(nil)

const dateLayout = "02/01/2006"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa usecase.ProductReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	appName string
	now     func() time.Time
}

// NewMarotoReportGenerator construye el generador. appName aparece como autor del documento.
func NewMarotoReportGenerator(appName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{appName: appName, now: time.Now}
}

// GenerateProductReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateProductReport(
	_ context.Context,
	farmer *entity.FarmerProfile,
	products []*entity.Product,
	filter entity.ProductFilter,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Productos de "+farmer.Name, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(farmer, g.now()))
	m.AddRows(farmerRow(farmer))
	m.AddRows(filterRow(filter))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(products) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin productos para los criterios seleccionados.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableRows(products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRows(products)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(farmer *entity.FarmerProfile, issued time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(farmer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Registro de productos", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Emitido: "+issued.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func farmerRow(farmer *entity.FarmerProfile) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s",
			nonEmpty(farmer.Address, "-"),
			nonEmpty(farmer.ContactNumber, "-"),
		), props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

func filterRow(f entity.ProductFilter) core.Row {
	from, to := "-", "-"
	if f.StartDate != nil {
		from = f.StartDate.Format(dateLayout)
	}
	if f.EndDate != nil {
		to = f.EndDate.Format(dateLayout)
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Categoría: %s   |   Desde: %s   |   Hasta: %s",
			nonEmpty(f.Category, "Todas"), from, to,
		), props.Text{Size: 8, Top: 1}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 6, align.Left),
		h("Categoría", 3, align.Left),
		h("Fecha de producción", 3, align.Right),
	)
}

func tableRows(products []*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(p.Category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(p.ProductionDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// summaryRows total general más una línea por categoría.
func summaryRows(products []*entity.Product) []core.Row {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	rows := []core.Row{row.New(7).Add(
		col.New(9).Add(text.New("Total de productos:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New(fmt.Sprintf("%d", len(products)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 1, Color: colorPrimary,
		})),
	)}
	for _, c := range categories {
		rows = append(rows, row.New(5).Add(
			col.New(9).Add(text.New(c+":", props.Text{Size: 8, Align: align.Right, Right: 2, Color: colorGray})),
			col.New(3).Add(text.New(fmt.Sprintf("%d", counts[c]), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
