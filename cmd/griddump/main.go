package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kotaroy/geomesh/pkg/export"
	"github.com/kotaroy/geomesh/pkg/jpmesh"
	"github.com/kotaroy/geomesh/pkg/model"
	"github.com/kotaroy/geomesh/pkg/tile"
)

type App struct {
	grid       model.Grid
	level      string
	bounds     model.Bounds
	dbFilename string
	geoJSON    bool
}

func NewApp(grid model.Grid, level string, bounds model.Bounds, out string, geoJSON bool) *App {
	return &App{
		grid:       grid,
		level:      level,
		bounds:     bounds,
		dbFilename: out,
		geoJSON:    geoJSON,
	}
}

func (app *App) Run() error {
	cells, err := app.grid.Cells(app.bounds, app.level)
	if err != nil {
		return err
	}

	fmt.Printf("enumerated %d %s cells\n", len(cells), app.level)

	if app.geoJSON {
		return app.writeGeoJSON(cells)
	}

	return app.writeDB(cells)
}

func (app *App) writeGeoJSON(cells []model.Cell) error {
	f, err := os.Create(app.dbFilename)
	if err != nil {
		return err
	}

	defer f.Close()

	prop := "mesh_code"
	if app.grid.GetKey() == "tiles" {
		prop = "zxy"
	}

	return export.Write(f, cells, prop)
}

func (app *App) writeDB(cells []model.Cell) error {
	_ = os.Remove(app.dbFilename)
	db, err := sql.Open("sqlite", app.dbFilename)

	if err != nil {
		return err
	}

	defer db.Close()

	if err := createTables(db); err != nil {
		return err
	}

	for _, c := range cells {
		if err := putCell(db, c); err != nil {
			return err
		}
	}

	meta := map[string]string{
		"version": "1.1",
		"grid":    app.grid.GetKey(),
		"crs":     app.grid.GetCRS(),
		"level":   app.level,
		"bbox":    app.bounds.String(),
		"count":   fmt.Sprintf("%d", len(cells)),
	}

	if err := putMeta(db, meta); err != nil {
		return err
	}

	fmt.Printf("written to %s\n", app.dbFilename)

	return nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec("CREATE TABLE IF NOT EXISTS cells (code TEXT NOT NULL,x_min REAL NOT NULL,y_min REAL NOT NULL,x_max REAL NOT NULL,y_max REAL NOT NULL,UNIQUE (code));")

	if err != nil {
		return err
	}

	_, err = db.Exec("CREATE TABLE IF NOT EXISTS metadata (name TEXT, value TEXT);")

	return err
}

func putCell(db *sql.DB, c model.Cell) error {
	_, err := db.Exec("INSERT INTO cells (code, x_min, y_min, x_max, y_max) values (?,?,?,?,?)",
		c.Code, c.Bounds.XMin, c.Bounds.YMin, c.Bounds.XMax, c.Bounds.YMax)
	return err
}

func putMeta(db *sql.DB, meta map[string]string) error {
	for k, v := range meta {
		_, err := db.Exec("INSERT INTO metadata (name, value) values (?,?)", k, v)
		if err != nil {
			return err
		}
	}
	return nil
}

func parseBBox(s string) (model.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.Bounds{}, fmt.Errorf("bbox must be x_min,y_min,x_max,y_max")
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.Bounds{}, fmt.Errorf("invalid bbox value %q", p)
		}
		vals[i] = v
	}

	return model.Bounds{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]}, nil
}

func main() {
	var gridName = flag.String("grid", "jpmesh", "grid system: jpmesh or tiles")
	var level = flag.String("level", "standard", "mesh level name or tile zoom")
	var bbox = flag.String("bbox", "", "query box: x_min,y_min,x_max,y_max (degrees)")
	var geoJSON = flag.Bool("geojson", false, "write GeoJSON instead of sqlite")

	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Println("no output file name")
		return
	}

	bounds, err := parseBBox(*bbox)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return
	}

	var grid model.Grid

	switch *gridName {
	case "jpmesh":
		grid = jpmesh.Grid{}
	case "tiles":
		designer, err := tile.NewDesigner(tile.DefaultDesignerOptions())
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			return
		}
		grid = tile.Grid{Designer: designer}
	default:
		fmt.Println("you need to specify a grid: jpmesh or tiles")
		return
	}

	if err := NewApp(grid, *level, bounds, flag.Arg(0), *geoJSON).Run(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
	}
}
