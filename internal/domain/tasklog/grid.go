package tasklog

import (
	"context"
	"time"

	"care-tracker/internal/domain/careday"
)

// GridStatus es el valor de una celda de la grilla de historial.
type GridStatus string

const (
	GridGiven  GridStatus = "given"
	GridMissed GridStatus = "missed"
	GridNA     GridStatus = "n/a" // fecha anterior a la creación del item
)

type GridColumn struct {
	ItemID    string
	Name      string
	PetName   string
	CreatedAt time.Time
}

type GridRow struct {
	Date careday.Day
	// Values mapea item id -> status de la celda.
	Values map[string]GridStatus
}

type GridPage struct {
	Columns  []GridColumn
	Rows     []GridRow
	Page     int
	PageSize int
	HasNext  bool
	HasPrev  bool
}

// Grid arma el historial en formato grilla: filas = fechas (la más
// reciente primero), columnas = care items activos. Para cada celda
// manda la última acción del día, igual que el status diario.
func (s *Service) Grid(ctx context.Context, page, pageSize int) (GridPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 30
	}

	today := s.Today()
	startOffset := (page - 1) * pageSize

	dates := make([]careday.Day, 0, pageSize)
	for i := 0; i < pageSize; i++ {
		dates = append(dates, today.Add(-(startOffset + i)))
	}
	maxDay := dates[0]
	minDay := dates[len(dates)-1]

	allPets, err := s.petsSvc.List(ctx, false)
	if err != nil {
		return GridPage{}, err
	}

	columns := make([]GridColumn, 0)
	for _, p := range allPets {
		items, err := s.tasksSvc.ListByPet(ctx, p.ID, false)
		if err != nil {
			return GridPage{}, err
		}
		for _, item := range items {
			columns = append(columns, GridColumn{
				ItemID:    item.ID,
				Name:      item.Name,
				PetName:   p.Name,
				CreatedAt: item.CreatedAt,
			})
		}
	}

	if len(columns) == 0 {
		return GridPage{Columns: []GridColumn{}, Rows: []GridRow{}, Page: page, PageSize: pageSize}, nil
	}

	entries, err := s.repo.ListRange(ctx, minDay, maxDay)
	if err != nil {
		return GridPage{}, err
	}

	// Última acción por (día, item) gana; entries viene ordenado asc.
	type cell struct {
		day careday.Day
		id  string
	}
	done := make(map[cell]bool, len(entries))
	for _, e := range entries {
		done[cell{e.CareDay, e.TaskID}] = e.Action == ActionCompleted
	}

	rows := make([]GridRow, 0, len(dates))
	for _, d := range dates {
		values := make(map[string]GridStatus, len(columns))
		for _, col := range columns {
			// Antes de que existiera el item, la celda no aplica. Se
			// usa el mismo resolver para que el corte de 4 AM cuente
			// igual que en el tablero.
			itemStart := s.days.At(col.CreatedAt)

			switch {
			case d.Before(itemStart):
				values[col.ItemID] = GridNA
			case done[cell{d, col.ItemID}]:
				values[col.ItemID] = GridGiven
			default:
				values[col.ItemID] = GridMissed
			}
		}
		rows = append(rows, GridRow{Date: d, Values: values})
	}

	hasNext := false
	if oldest, ok, err := s.repo.OldestDay(ctx); err == nil && ok && oldest.Before(minDay) {
		hasNext = true
	} else if !ok {
		// Sin logs todavía: hay página siguiente si alguna mascota es
		// más vieja que el rango visible.
		for _, p := range allPets {
			if s.days.At(p.CreatedAt).Before(minDay) {
				hasNext = true
				break
			}
		}
	}

	return GridPage{
		Columns:  columns,
		Rows:     rows,
		Page:     page,
		PageSize: pageSize,
		HasNext:  hasNext,
		HasPrev:  page > 1,
	}, nil
}
