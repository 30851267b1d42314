// Package fitsrec records aspect pipeline frames and their diagnostic
// output to disk as FITS files with incrementing filenames in
// yyyy-mm-dd subfolders, mirroring this codebase's image recorder.
package fitsrec

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/astrogo/fitsio"

	"github.jpl.nasa.gov/bdube/aspect/aspect"
	"github.jpl.nasa.gov/bdube/aspect/camera"
)

// Recorder records aspect frames with incrementing filenames in
// yyyy-mm-dd subfolders. It is not thread safe.
type Recorder struct {
	// counter is the internally incrementing filename counter.
	counter int

	// Root is the root path.
	Root string

	// Prefix is the filename prefix.
	Prefix string

	// timeFldr is the subfolder with yyyy-mm-dd format.
	timeFldr string

	// Enabled gates whether a caller should bother calling WriteFrame
	// at all; the field is not consulted by WriteFrame itself.
	Enabled bool
}

// updateFolder refreshes timeFldr to today's date.
func (r *Recorder) updateFolder() {
	now := time.Now()
	y, m, d := now.Year(), now.Month(), now.Day()
	r.timeFldr = fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// mkDir makes today's folder and returns it.
func (r *Recorder) mkDir() (string, error) {
	fldr := path.Join(r.Root, r.timeFldr)
	err := os.MkdirAll(fldr, 0777)
	return fldr, err
}

// Incr recovers the filename counter by scanning today's folder for
// the highest-numbered existing file with this recorder's prefix. If
// the folder cannot be read, the counter is left unchanged.
func (r *Recorder) Incr() {
	r.updateFolder()
	dn, _ := r.mkDir()
	files, err := ioutil.ReadDir(dn)
	if err != nil {
		return
	}
	count := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		fn := file.Name()
		if !strings.HasSuffix(fn, ".fits") || !strings.HasPrefix(fn, r.Prefix) {
			continue
		}
		bit := strings.Split(fn, r.Prefix)[1]
		bit = bit[:len(bit)-5] // drop ".fits"
		n, err := strconv.Atoi(bit)
		if err != nil {
			return
		}
		if count < n {
			count = n
		}
	}
	r.counter = count + 1
}

// nextPath returns the path to write the next frame to, creating the
// date folder as a side effect.
func (r *Recorder) nextPath() (string, error) {
	r.updateFolder()
	fldr, err := r.mkDir()
	if err != nil {
		return "", err
	}
	fn := fmt.Sprintf("%s%06d.fits", r.Prefix, r.counter)
	return path.Join(fldr, fn), nil
}

// WriteFrame writes f to the next incrementing-filename FITS file,
// with cards appended to the primary HDU's header, and advances the
// recorder's counter on success.
func (r *Recorder) WriteFrame(f camera.Frame, cards []fitsio.Card) error {
	p, err := r.nextPath()
	if err != nil {
		return err
	}
	fid, err := os.Create(p)
	if err != nil {
		return err
	}
	defer fid.Close()

	if err := writeFrame(fid, f, cards); err != nil {
		return err
	}
	r.counter++
	return nil
}

// writeFrame encodes f as an 8-bit FITS image with cards in its
// header and streams it to w.
func writeFrame(w *os.File, f camera.Frame, cards []fitsio.Card) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()

	im := fitsio.NewImage(8, []int{f.Width, f.Height})
	defer im.Close()
	if err := im.Header().Append(cards...); err != nil {
		return err
	}
	if err := im.Write(f.Pix); err != nil {
		return err
	}
	return fits.Write(im)
}

// DiagnosticCards summarizes p's current outputs as FITS header cards,
// suitable for stamping onto the frame that produced them. Every
// getter is called at its own ceiling, so cards for stages the
// pipeline never reached are simply omitted rather than filled with
// zero values that could be mistaken for real measurements.
func DiagnosticCards(p *aspect.Pipeline) []fitsio.Card {
	cards := []fitsio.Card{
		{Name: "ASPSTATE", Value: p.State().String(), Comment: "aspect pipeline terminal state"},
	}

	// Every getter below echoes State unavailable rather than zeroing
	// silently, so a plain equality against NoError would miss data
	// from a frame that hit a later, unrelated failure after this
	// stage completed; compare against the State this getter actually
	// returns when it has data instead.
	if min, max, state := p.GetPixelMinMax(); state < aspect.FrameEmpty {
		cards = append(cards,
			fitsio.Card{Name: "PIXMIN", Value: int(min), Comment: "robust pixel minimum"},
			fitsio.Card{Name: "PIXMAX", Value: int(max), Comment: "robust pixel maximum"},
		)
	}

	if center, state := p.GetPixelCenter(); state < aspect.SolarImageEmpty {
		cards = append(cards,
			fitsio.Card{Name: "CENTERX", Value: center.X, Comment: "solar center, pixel column"},
			fitsio.Card{Name: "CENTERY", Value: center.Y, Comment: "solar center, pixel row"},
		)
	}

	if ex, ey, state := p.GetPixelError(); state < aspect.SolarImageEmpty {
		cards = append(cards,
			fitsio.Card{Name: "CENTERRX", Value: ex, Comment: "solar center X standard deviation"},
			fitsio.Card{Name: "CENTERRY", Value: ey, Comment: "solar center Y standard deviation"},
		)
	}

	if ids, state := p.GetFiducialIDs(); state < aspect.MappingIllConditioned {
		valid := 0
		for _, id := range ids {
			if id.Valid() {
				valid++
			}
		}
		cards = append(cards, fitsio.Card{Name: "NFIDUC", Value: valid, Comment: "identified fiducials"})
	}

	if center, state := p.GetScreenCenter(); state < aspect.StaleData {
		cards = append(cards,
			fitsio.Card{Name: "SCENTX", Value: center.X, Comment: "solar center, screen X (um)"},
			fitsio.Card{Name: "SCENTY", Value: center.Y, Comment: "solar center, screen Y (um)"},
		)
	}

	return cards
}
