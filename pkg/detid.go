package ebmonitor

import "fmt"

// DetID is the raw 32-bit detector identifier shared by every ECAL channel type.
//
//	bits 28-31  detector (3 = Ecal)
//	bits 25-27  sub-detector (1 = barrel, 6 = laser PN diode)
//	bits  0-24  sub-detector specific payload
type DetID uint32

const (
	detectorEcal uint32 = 3

	subdetBarrel       uint32 = 1
	subdetLaserPn      uint32 = 6
	ecalBarrelPnSubdet uint32 = 1
)

// Barrel geometry
const (
	MaxIEta          = 85
	MaxIPhi          = 360
	CrystalsInPhi    = 20
	CrystalsInEta    = 85
	CrystalsPerSM    = CrystalsInPhi * CrystalsInEta
	NumberOfSMs      = 36
	SMsPerSide       = NumberOfSMs / 2
	PnDiodesPerMem   = 10
	ChannelsPerStrip = 5
	FirstBarrelDCC   = 10
	LastBarrelDCC    = FirstBarrelDCC + NumberOfSMs - 1
)

func (id DetID) Detector() uint32 {
	return uint32(id) >> 28 & 0xF
}

func (id DetID) Subdetector() uint32 {
	return uint32(id) >> 25 & 0x7
}

func (id DetID) IsBarrel() bool {
	return id.Detector() == detectorEcal && id.Subdetector() == subdetBarrel
}

func (id DetID) IsPnDiode() bool {
	return id.Detector() == detectorEcal && id.Subdetector() == subdetLaserPn
}

// EBDetID identifies one barrel crystal.
//
//	bit 16     z side, set for EB+
//	bits 9-15  |ieta|, 1..85
//	bits 0-8   iphi, 1..360
type EBDetID DetID

// NewEBDetID builds a barrel id from signed ieta (-85..85, no zero) and iphi (1..360).
func NewEBDetID(ieta int, iphi int) (EBDetID, error) {
	if ieta == 0 || ieta < -MaxIEta || ieta > MaxIEta {
		return 0, fmt.Errorf("ieta out of range: %d", ieta)
	}
	if iphi < 1 || iphi > MaxIPhi {
		return 0, fmt.Errorf("iphi out of range: %d", iphi)
	}
	return EBDetIDFromFields(ieta > 0, abs(ieta), iphi), nil
}

// EBDetIDFromFields packs the id fields without range checks.
func EBDetIDFromFields(positiveZ bool, ietaAbs int, iphi int) EBDetID {
	raw := detectorEcal<<28 | subdetBarrel<<25
	if positiveZ {
		raw |= 0x10000
	}
	raw |= (uint32(ietaAbs) & 0x7F) << 9
	raw |= uint32(iphi) & 0x1FF
	return EBDetID(raw)
}

func (id EBDetID) Raw() DetID {
	return DetID(id)
}

func (id EBDetID) PositiveZ() bool {
	return uint32(id)&0x10000 != 0
}

func (id EBDetID) IEtaAbs() int {
	return int(uint32(id) >> 9 & 0x7F)
}

func (id EBDetID) IEta() int {
	if id.PositiveZ() {
		return id.IEtaAbs()
	}
	return -id.IEtaAbs()
}

func (id EBDetID) IPhi() int {
	return int(uint32(id) & 0x1FF)
}

// IC is the 1-based crystal number inside the supermodule, 1..1700 for valid ids.
// Numbering runs along phi first, starting from the low-|eta| edge.
func (id EBDetID) IC() int {
	ie := id.IEtaAbs() - 1
	phiInSM := (id.IPhi() - 1) % CrystalsInPhi
	if id.PositiveZ() {
		return ie*CrystalsInPhi + (CrystalsInPhi - phiInSM)
	}
	return ie*CrystalsInPhi + phiInSM + 1
}

// ISM is the supermodule index implied by the id itself: 1..18 for EB-, 19..36 for EB+.
func (id EBDetID) ISM() int {
	ism := (id.IPhi()-1)/CrystalsInPhi + 1
	if id.PositiveZ() {
		ism += SMsPerSide
	}
	return ism
}

func (id EBDetID) String() string {
	return fmt.Sprintf("(EB ieta %d, iphi %d ; ism %d , ic %d)", id.IEta(), id.IPhi(), id.ISM(), id.IC())
}

// PnDiodeDetID identifies one monitoring diode of a MEM box.
//
//	bits 11-12  ECAL sub-detector (1 = barrel)
//	bits 4-10   DCC id, 10..45 for the barrel
//	bits 0-3    PN id, 1..10
type PnDiodeDetID DetID

func NewPnDiodeDetID(dccID int, pnID int) (PnDiodeDetID, error) {
	if dccID < FirstBarrelDCC || dccID > LastBarrelDCC {
		return 0, fmt.Errorf("barrel DCC id out of range: %d", dccID)
	}
	if pnID < 1 || pnID > PnDiodesPerMem {
		return 0, fmt.Errorf("PN id out of range: %d", pnID)
	}
	return PnDiodeDetIDFromFields(dccID, pnID), nil
}

func PnDiodeDetIDFromFields(dccID int, pnID int) PnDiodeDetID {
	raw := detectorEcal<<28 | subdetLaserPn<<25
	raw |= ecalBarrelPnSubdet << 11
	raw |= (uint32(dccID) & 0x7F) << 4
	raw |= uint32(pnID) & 0xF
	return PnDiodeDetID(raw)
}

func (id PnDiodeDetID) Raw() DetID {
	return DetID(id)
}

func (id PnDiodeDetID) IDCCID() int {
	return int(uint32(id) >> 4 & 0x7F)
}

func (id PnDiodeDetID) IPnID() int {
	return int(uint32(id) & 0xF)
}

func (id PnDiodeDetID) String() string {
	return fmt.Sprintf("(PN dcc %d, pn %d)", id.IDCCID(), id.IPnID())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
