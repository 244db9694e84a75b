package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/kotaroy/geomesh/pkg/index"
	"github.com/kotaroy/geomesh/pkg/jpmesh"
	"github.com/kotaroy/geomesh/pkg/model"
	"github.com/kotaroy/geomesh/pkg/tile"
)

type App struct {
	addr     string
	logger   *slog.Logger
	grids    *Grids
	datasets *Datasets
	designer *tile.Designer
}

func NewApp(addr string) *App {
	return &App{
		addr:     addr,
		logger:   slog.Default(),
		grids:    NewGrids(),
		datasets: NewDatasets(),
	}
}

type TileConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	MinZoom int `yaml:"min_zoom"`
	MaxZoom int `yaml:"max_zoom"`
}

type DatasetConfig struct {
	Name  string     `yaml:"name"`
	Grid  string     `yaml:"grid"`
	Level string     `yaml:"level"`
	BBox  [4]float64 `yaml:"bbox"`
}

type Config struct {
	Tiles    TileConfig       `yaml:"tiles"`
	Datasets []*DatasetConfig `yaml:"datasets"`
}

func (app *App) loadConfig(path string) error {
	var conf Config

	if path != "" {
		d, err := os.ReadFile(path)

		if err != nil {
			return err
		}

		if err := yaml.Unmarshal(d, &conf); err != nil {
			return err
		}
	}

	opts := tile.DefaultDesignerOptions()
	opts.MinZoom = conf.Tiles.MinZoom
	if conf.Tiles.Width > 0 {
		opts.Width = conf.Tiles.Width
	}
	if conf.Tiles.Height > 0 {
		opts.Height = conf.Tiles.Height
	}
	if conf.Tiles.MaxZoom > 0 {
		opts.MaxZoom = conf.Tiles.MaxZoom
	}

	designer, err := tile.NewDesigner(opts)
	if err != nil {
		return err
	}

	app.designer = designer

	app.grids.Add(jpmesh.Grid{})
	app.grids.Add(tile.Grid{Designer: designer})

	for _, dc := range conf.Datasets {
		if err := app.addDataset(dc); err != nil {
			app.logger.Error("dataset "+dc.Name+" skipped", "error", err)
		}
	}

	return nil
}

func (app *App) addDataset(dc *DatasetConfig) error {
	grid, ok := app.grids.Get(dc.Grid)
	if !ok {
		return fmt.Errorf("unknown grid %q", dc.Grid)
	}

	bounds := model.Bounds{XMin: dc.BBox[0], YMin: dc.BBox[1], XMax: dc.BBox[2], YMax: dc.BBox[3]}

	cells, err := grid.Cells(bounds, dc.Level)
	if err != nil {
		return err
	}

	app.datasets.Add(&Dataset{
		Name:  dc.Name,
		Grid:  dc.Grid,
		Level: dc.Level,
		CRS:   grid.GetCRS(),
		Index: index.NewCellIndex(cells),
	})

	app.logger.Info(fmt.Sprintf("dataset %s: %d %s cells", dc.Name, len(cells), dc.Level))

	return nil
}

func (app *App) Run() {
	http := NewHttp(app)

	app.logger.Info("listening on " + app.addr)

	go func() {
		if err := http.Listen(app.addr); err != nil {
			panic(err)
		}
	}()

	app.loop()
}

func (app *App) loop() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	<-sigc
}

func main() {
	var conf = flag.String("config", "", "yaml config path")
	var addr = flag.String("addr", ":8877", "listen address")
	var debug = flag.Bool("debug", false, "")

	flag.Parse()

	var h slog.Handler
	if *debug {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))

	app := NewApp(*addr)

	if err := app.loadConfig(*conf); err != nil {
		panic(err)
	}

	app.Run()
}
