// Package storage сохраняет и загружает снимки воксельных регионов.
//
// Снимок это YAML документ с координатами региона и списком непустых ячеек.
// При записи его можно сжать zstd, при чтении формат определяется по
// магическому числу кадра.
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/annel0/voxel-navmesh/internal/aabb"
	"github.com/annel0/voxel-navmesh/internal/logging"
	"github.com/annel0/voxel-navmesh/internal/vec"
	"github.com/annel0/voxel-navmesh/internal/voxel"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Version текущая версия формата снимка
const Version = 1

// zstdMagic первые байты кадра zstd
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var ErrUnsupportedVersion = errors.New("unsupported region file version")

// RegionFile сериализуемое представление региона
type RegionFile struct {
	Version int         `yaml:"version"`
	Origin  [3]int      `yaml:"origin"`
	Cells   []CellEntry `yaml:"cells"`
}

// CellEntry коробки одной ячейки: minX, minY, minZ, maxX, maxY, maxZ
type CellEntry struct {
	Pos   [3]int       `yaml:"pos,flow"`
	Boxes [][6]float64 `yaml:"boxes,flow"`
}

// NewRegionFile снимает содержимое региона в порядке z, x, y
func NewRegionFile(region *voxel.Region) *RegionFile {
	origin := region.Origin()
	file := &RegionFile{
		Version: Version,
		Origin:  [3]int{origin.X, origin.Y, origin.Z},
	}

	for z := 0; z < voxel.Width; z++ {
		for x := 0; x < voxel.Width; x++ {
			for y := 0; y < voxel.Height; y++ {
				boxes := region.Cell(vec.Vec3{X: x, Y: y, Z: z})
				if len(boxes) == 0 {
					continue
				}
				entry := CellEntry{Pos: [3]int{x, y, z}}
				for _, b := range boxes {
					entry.Boxes = append(entry.Boxes, [6]float64{b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ})
				}
				file.Cells = append(file.Cells, entry)
			}
		}
	}
	return file
}

// Region восстанавливает регион, проверяя коробки и координаты
func (f *RegionFile) Region() (*voxel.Region, error) {
	if f.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}

	cells := make(map[vec.Vec3][]aabb.Box3D, len(f.Cells))
	for _, entry := range f.Cells {
		pos := vec.Vec3{X: entry.Pos[0], Y: entry.Pos[1], Z: entry.Pos[2]}
		for _, v := range entry.Boxes {
			box, err := aabb.NewBox3D(v[0], v[1], v[2], v[3], v[4], v[5])
			if err != nil {
				return nil, fmt.Errorf("cell %v: %w", pos, err)
			}
			cells[pos] = append(cells[pos], box)
		}
	}

	origin := vec.Vec3{X: f.Origin[0], Y: f.Origin[1], Z: f.Origin[2]}
	return voxel.NewRegion(origin, cells)
}

// EncodeRegion пишет снимок региона в w, при compress оборачивая его в zstd
func EncodeRegion(w io.Writer, region *voxel.Region, compress bool) error {
	data, err := yaml.Marshal(NewRegionFile(region))
	if err != nil {
		return fmt.Errorf("ошибка сериализации региона: %w", err)
	}

	if !compress {
		_, err = w.Write(data)
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// DecodeRegion читает снимок, сжатый или нет
func DecodeRegion(r io.Reader) (*voxel.Region, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if head, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		src = dec
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения снимка: %w", err)
	}

	var file RegionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка десериализации региона: %w", err)
	}
	return file.Region()
}

// SaveRegionFile сохраняет регион в файл. Расширение .zst включает сжатие.
func SaveRegionFile(path string, region *voxel.Region) error {
	logger := logging.GetStorageLogger()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := EncodeRegion(f, region, filepath.Ext(path) == ".zst"); err != nil {
		f.Close()
		logger.Error("Не удалось записать регион %v в %s: %v", region.Origin(), path, err)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Debug("Регион %v сохранён в %s", region.Origin(), path)
	return nil
}

// LoadRegionFile загружает регион из файла
func LoadRegionFile(path string) (*voxel.Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	region, err := DecodeRegion(f)
	if err != nil {
		logging.GetStorageLogger().Warn("Повреждённый снимок %s: %v", path, err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return region, nil
}
