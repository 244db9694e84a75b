package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/kotaroy/geomesh/pkg/export"
	"github.com/kotaroy/geomesh/pkg/jpmesh"
	"github.com/kotaroy/geomesh/pkg/model"
)

func NewHttp(app *App) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnablePrintRoutes:     false,
	})

	f.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${queryParams}\n",
	}))

	f.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	f.Get("/", getIndexHandler(app))
	f.Get("/grids", getGridsHandler(app))
	f.Get("/mesh/encode", getEncodeHandler(app))
	f.Get("/mesh/decode/:code", getDecodeHandler(app))
	f.Get("/cells/:grid/:level", getCellsHandler(app))
	f.Get("/tiles/index", getTileIndexHandler(app))
	f.Get("/tiles/:zoom/:x/:y", getTileHandler(app))
	f.Get("/datasets", getDatasetsHandler(app))
	f.Get("/datasets/:name/at", getDatasetAtHandler(app))
	f.Get("/datasets/:name/cells", getDatasetCellsHandler(app))

	return f
}

func getIndexHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    "gridserver",
			"version": getVersion(),
		})
	}
}

func getGridsHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		r := make([]map[string]any, 0)

		app.grids.All(func(g model.Grid) bool {
			r = append(r, map[string]any{
				"key": g.GetKey(),
				"crs": g.GetCRS(),
				"url": "/cells/" + g.GetKey() + "/{level}?bbox={x_min},{y_min},{x_max},{y_max}",
			})
			return true
		})

		return c.JSON(r)
	}
}

func getEncodeHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		lon, err := queryFloat(c, "lon")
		if err != nil {
			return badRequest(c, err)
		}

		lat, err := queryFloat(c, "lat")
		if err != nil {
			return badRequest(c, err)
		}

		var addr jpmesh.Address
		if c.QueryBool("dms") {
			addr, err = jpmesh.EncodeDMS(lon, lat)
		} else {
			addr, err = jpmesh.Encode(lon, lat)
		}

		if err != nil {
			return badRequest(c, err)
		}

		return c.JSON(fiber.Map{
			"1st":      addr.First,
			"2nd":      addr.Second,
			"standard": addr.Standard,
			"half":     addr.Half,
			"quarter":  addr.Quarter,
		})
	}
}

func getDecodeHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")

		bounds, err := jpmesh.Decode(code)
		if err != nil {
			return badRequest(c, err)
		}

		return c.JSON(model.Cell{Code: code, Bounds: bounds})
	}
}

func getCellsHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		name := c.Params("grid")

		grid, ok := app.grids.Get(name)
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("grid %s is not found", name))
		}

		bounds, err := parseBBox(c.Query("bbox"))
		if err != nil {
			return badRequest(c, err)
		}

		cells, err := grid.Cells(bounds, c.Params("level"))
		if err != nil {
			return badRequest(c, err)
		}

		if c.Query("format") == "geojson" {
			data, err := export.Marshal(cells, codeProperty(name))
			if err != nil {
				return err
			}

			c.Set("Content-Type", "application/geo+json")
			_, err = c.Write(data)
			return err
		}

		return c.JSON(cells)
	}
}

func getTileIndexHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		lon, err := queryFloat(c, "lon")
		if err != nil {
			return badRequest(c, err)
		}

		lat, err := queryFloat(c, "lat")
		if err != nil {
			return badRequest(c, err)
		}

		zoom, err := strconv.Atoi(c.Query("zoom"))
		if err != nil {
			return badRequest(c, fmt.Errorf("invalid zoom value"))
		}

		var x, y int
		if crs := c.Query("crs"); crs != "" {
			x, y, err = app.designer.IndexFrom(crs, lon, lat, zoom)
		} else {
			x, y, err = app.designer.Index(lon, lat, zoom)
		}

		if err != nil {
			return badRequest(c, err)
		}

		return c.JSON(fiber.Map{"zoom": zoom, "x": x, "y": y})
	}
}

func getTileHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var err error
		var zoom, x, y int

		if zoom, err = c.ParamsInt("zoom"); err != nil {
			return badRequest(c, fmt.Errorf("invalid zoom value"))
		}

		if x, err = c.ParamsInt("x"); err != nil {
			return badRequest(c, fmt.Errorf("invalid x value"))
		}

		if y, err = c.ParamsInt("y"); err != nil {
			return badRequest(c, fmt.Errorf("invalid y value"))
		}

		design, err := app.designer.FromIndex(x, y, zoom)
		if err != nil {
			return badRequest(c, err)
		}

		return c.JSON(design)
	}
}

func getDatasetsHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		r := make([]map[string]any, 0)

		app.datasets.All(func(d *Dataset) bool {
			r = append(r, map[string]any{
				"name":   d.Name,
				"grid":   d.Grid,
				"level":  d.Level,
				"crs":    d.CRS,
				"cells":  d.Index.Count(),
				"bounds": d.Index.Bounds(),
			})
			return true
		})

		return c.JSON(r)
	}
}

func getDatasetAtHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")

		ds, ok := app.datasets.Get(name)
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("dataset %s is not found", name))
		}

		x, err := queryFloat(c, "x")
		if err != nil {
			return badRequest(c, err)
		}

		y, err := queryFloat(c, "y")
		if err != nil {
			return badRequest(c, err)
		}

		cell, ok := ds.Index.At(x, y)
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("no cell at point")
		}

		return c.JSON(cell)
	}
}

func getDatasetCellsHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")

		ds, ok := app.datasets.Get(name)
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("dataset %s is not found", name))
		}

		bounds, err := parseBBox(c.Query("bbox"))
		if err != nil {
			return badRequest(c, err)
		}

		cells := ds.Index.Query(bounds)

		if c.Query("format") == "geojson" {
			data, err := export.Marshal(cells, codeProperty(ds.Grid))
			if err != nil {
				return err
			}

			c.Set("Content-Type", "application/geo+json")
			_, err = c.Write(data)
			return err
		}

		return c.JSON(cells)
	}
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value", key)
	}

	return v, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func codeProperty(gridKey string) string {
	if gridKey == "tiles" {
		return "zxy"
	}

	return "mesh_code"
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

	b := model.Bounds{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]}
	if !b.Valid() {
		return b, &model.ErrInvalidRange{Bounds: b}
	}

	return b, nil
}
