// Package disk emulates the BIOS view of the drives attached to the
// virtual machine.
//
// The actual sector storage is an external collaborator - anything
// implementing io.ReadWriteSeeker, typically a raw image file.  We
// keep the per-drive geometry, derived from the image size the way
// period BIOSes probed media, translate CHS addresses into image
// offsets, and map transfer results onto the legacy status-byte
// encoding the guest expects.
package disk

import (
	"errors"
	"io"
	"sync"
)

// SectorSize is the fixed sector size of every drive we emulate.
const SectorSize = 512

// Legacy status codes, as returned by the disk services in AH.
const (
	StatusOK             uint8 = 0x00
	StatusBadCommand     uint8 = 0x01
	StatusSectorNotFound uint8 = 0x04
	StatusWriteProtect   uint8 = 0x03
	StatusCRCError       uint8 = 0x10
	StatusNotReady       uint8 = 0x80
	StatusNoMedia        uint8 = 0xAA
)

var (
	// ErrNoDisk is returned when the addressed drive has no image.
	ErrNoDisk = errors.New("NODISK")

	// ErrHasDisk is returned when inserting over a present image.
	ErrHasDisk = errors.New("HASDISK")
)

// Geometry holds the static parameters of one drive.
type Geometry struct {
	Cylinders uint16
	Heads     uint16
	Sectors   uint16
}

// Capacity returns the total sector count of the geometry.
func (g Geometry) Capacity() uint32 {
	return uint32(g.Cylinders) * uint32(g.Heads) * uint32(g.Sectors)
}

// FloppyType returns the CMOS drive-type code for a diskette
// geometry: 1=360K, 2=1.2M, 3=720K, 4=1.44M.  The 40-track formats
// all report as the 360K drive which reads them.
func (g Geometry) FloppyType() uint8 {
	switch {
	case g.Sectors == 15:
		return 0x02
	case g.Sectors == 18:
		return 0x04
	case g.Cylinders == 80:
		return 0x03
	default:
		return 0x01
	}
}

// drive is one attached drive.
type drive struct {
	rws      io.ReadWriteSeeker
	size     uint32
	geo      Geometry
	present  bool
	readOnly bool
}

// Controller owns every attached drive, plus the per-drive
// last-operation status the guest can query.
//
// Drive numbering follows the BIOS convention: 0x00-0x7F are
// diskettes, 0x80 upwards are fixed disks.
type Controller struct {
	mu sync.Mutex

	drives     [0x100]drive
	lastStatus [0x100]uint8
	numFloppy  uint8
	numHD      uint8
}

// NewController returns an empty controller.
func NewController() *Controller {
	return &Controller{}
}

// Insert attaches an image to the given drive number, deriving the
// geometry from the image size.
func (c *Controller) Insert(dnum uint8, rws io.ReadWriteSeeker) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := &c.drives[dnum]
	if d.present {
		return ErrHasDisk
	}

	sz, err := rws.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err = rws.Seek(0, io.SeekStart); err != nil {
		return err
	}

	d.rws = rws
	d.size = uint32(sz)

	if dnum >= 0x80 {
		// Fixed disk: the classic 63-sector, 16-head translation.
		d.geo.Heads = 16
		d.geo.Sectors = 63
		d.geo.Cylinders = uint16(d.size / (uint32(d.geo.Sectors) * uint32(d.geo.Heads) * SectorSize))
		c.numHD++
	} else {
		// Diskette formats, probed smallest first.
		switch {
		case d.size <= 163840:
			d.geo = Geometry{Cylinders: 40, Heads: 1, Sectors: 8}
		case d.size <= 368640:
			d.geo = Geometry{Cylinders: 40, Heads: 2, Sectors: 9}
		case d.size <= 737280:
			d.geo = Geometry{Cylinders: 80, Heads: 2, Sectors: 9}
		case d.size <= 1228800:
			d.geo = Geometry{Cylinders: 80, Heads: 2, Sectors: 15}
		default:
			d.geo = Geometry{Cylinders: 80, Heads: 2, Sectors: 18}
		}
		c.numFloppy++
	}

	d.present = true
	return nil
}

// Eject detaches the image from the given drive, returning it.
func (c *Controller) Eject(dnum uint8) (io.ReadWriteSeeker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := &c.drives[dnum]
	if !d.present {
		return nil, ErrNoDisk
	}
	if dnum >= 0x80 {
		c.numHD--
	} else {
		c.numFloppy--
	}
	d.present = false
	return d.rws, nil
}

// SetWriteProtected marks the drive read-only, the way a notched
// diskette would be.
func (c *Controller) SetWriteProtected(dnum uint8, protected bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := &c.drives[dnum]
	if !d.present {
		return ErrNoDisk
	}
	d.readOnly = protected
	return nil
}

// Geometry returns the geometry of the given drive.
func (c *Controller) Geometry(dnum uint8) (Geometry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := &c.drives[dnum]
	return d.geo, d.present
}

// Present returns true if the given drive has an image attached.
func (c *Controller) Present(dnum uint8) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drives[dnum].present
}

// FloppyCount returns the number of attached diskette drives.
func (c *Controller) FloppyCount() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.numFloppy
}

// HardCount returns the number of attached fixed disks.
func (c *Controller) HardCount() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.numHD
}

// LastStatus returns the recorded status of the previous operation
// on the given drive.
func (c *Controller) LastStatus(dnum uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStatus[dnum]
}

// SetLastStatus records the status of an operation on the given
// drive.
func (c *Controller) SetLastStatus(dnum uint8, status uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastStatus[dnum] = status
}

// Reset clears every recorded status, the way the disk-reset service
// does.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lastStatus {
		c.lastStatus[i] = StatusOK
	}
}

// lba translates a CHS address into an absolute sector number, or
// fails if the address is outside the drive's geometry.  Sector
// numbering is one-based, the other coordinates zero-based.
func (d *drive) lba(cylinder uint16, head uint8, sector uint8) (int64, bool) {
	if sector == 0 || uint16(sector) > d.geo.Sectors {
		return 0, false
	}
	if uint16(head) >= d.geo.Heads || cylinder >= d.geo.Cylinders {
		return 0, false
	}
	return (int64(cylinder)*int64(d.geo.Heads)+int64(head))*int64(d.geo.Sectors) + int64(sector) - 1, true
}

// Read transfers count sectors from the given CHS address into buf,
// returning the number of sectors moved and a legacy status byte.
//
// The status is also recorded as the drive's last-operation status.
func (c *Controller) Read(dnum uint8, cylinder uint16, head uint8, sector uint8, count uint8, buf []byte) (uint8, uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	done, status := c.transfer(true, dnum, cylinder, head, sector, count, buf)
	c.lastStatus[dnum] = status
	return done, status
}

// Write transfers count sectors from buf onto the drive, returning
// the number of sectors moved and a legacy status byte.
func (c *Controller) Write(dnum uint8, cylinder uint16, head uint8, sector uint8, count uint8, buf []byte) (uint8, uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	done, status := c.transfer(false, dnum, cylinder, head, sector, count, buf)
	c.lastStatus[dnum] = status
	return done, status
}

// Verify confirms that count sectors at the given CHS address are
// readable, without transferring them anywhere.
func (c *Controller) Verify(dnum uint8, cylinder uint16, head uint8, sector uint8, count uint8) (uint8, uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, int(count)*SectorSize)
	done, status := c.transfer(true, dnum, cylinder, head, sector, count, buf)
	c.lastStatus[dnum] = status
	return done, status
}

// transfer moves whole sectors between the image and buf.  The
// caller holds the lock.
func (c *Controller) transfer(readOp bool, dnum uint8, cylinder uint16, head uint8, sector uint8, count uint8, buf []byte) (uint8, uint8) {

	d := &c.drives[dnum]
	if !d.present {
		return 0, StatusNotReady
	}
	if count == 0 || len(buf) < int(count)*SectorSize {
		return 0, StatusBadCommand
	}
	if !readOp && d.readOnly {
		return 0, StatusWriteProtect
	}

	lba, ok := d.lba(cylinder, head, sector)
	if !ok {
		return 0, StatusSectorNotFound
	}

	// Transfers may not run off the end of the image.
	if uint32(lba)+uint32(count) > d.geo.Capacity() || uint32(lba)*SectorSize+uint32(count)*SectorSize > d.size {
		return 0, StatusSectorNotFound
	}

	if _, err := d.rws.Seek(lba*SectorSize, io.SeekStart); err != nil {
		return 0, StatusNotReady
	}

	var done uint8
	for done < count {
		chunk := buf[int(done)*SectorSize : (int(done)+1)*SectorSize]
		if readOp {
			if _, err := io.ReadFull(d.rws, chunk); err != nil {
				return done, StatusCRCError
			}
		} else {
			if n, err := d.rws.Write(chunk); n != SectorSize || err != nil {
				return done, StatusCRCError
			}
		}
		done++
	}

	return done, StatusOK
}
