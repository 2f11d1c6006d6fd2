package vl53l1x

import "fmt"

const (
	// roiMaxSize is the width and height of the SPAD array
	roiMaxSize = 16
	// roiDefaultCenter is the optical center SPAD, forced when the ROI is
	// wider or taller than 10 SPADs
	roiDefaultCenter uint8 = 199
)

// ROI is the region of interest of the 16x16 SPAD array used for ranging
type ROI struct {
	Width  uint8
	Height uint8
}

// SetROI sets the region‐of‐interest size, centered about the optical center.
// Sizes above 16 are clamped, the smallest recommended size is 4x4.
func (v *VL53L1X) SetROI(roi ROI) error {

	if roi.Width == 0 || roi.Height == 0 {
		return fmt.Errorf("%w: ROI size %dx%d must be at least 1x1", ErrInvalidArgument, roi.Width, roi.Height)
	}

	center, err := v.readReg(ROI_CONFIG_MODE_ROI_CENTRE_SPAD)

	if err != nil {
		return err
	}

	// check SPAD array bounds
	if roi.Width > roiMaxSize {
		roi.Width = roiMaxSize
	}

	if roi.Height > roiMaxSize {
		roi.Height = roiMaxSize
	}

	// force ROI to be centered if width or height > 10, matching what the ULD
	// API does.
	if roi.Width > 10 || roi.Height > 10 {
		center = roiDefaultCenter
	}

	if err := v.writeReg(ROI_CONFIG_USER_ROI_CENTRE_SPAD, center); err != nil {
		return err
	}

	val := ((roi.Height - 1) << 4) | (roi.Width - 1)

	return v.writeReg(ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE, val)
}

// GetROI returns the current ROI width and height
func (v *VL53L1X) GetROI() (ROI, error) {

	regVal, err := v.readReg(ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE)

	if err != nil {
		return ROI{}, err
	}

	return ROI{
		Width:  (regVal & 0x0F) + 1,
		Height: (regVal >> 4) + 1,
	}, nil
}

// SetROICenter sets the center SPAD number of the region of interest (ROI)
// based on VL53L1X_SetROICenter() from STSW-IMG009 Ultra Lite Driver.  There
// is no check that the center and size keep the ROI inside the array.
//
// Here is a table of SPAD locations from UM2555 (199 is the default/center):
//
// 128,136,144,152,160,168,176,184,  192,200,208,216,224,232,240,248
// 129,137,145,153,161,169,177,185,  193,201,209,217,225,233,241,249
// 130,138,146,154,162,170,178,186,  194,202,210,218,226,234,242,250
// 131,139,147,155,163,171,179,187,  195,203,211,219,227,235,243,251
// 132,140,148,156,164,172,180,188,  196,204,212,220,228,236,244,252
// 133,141,149,157,165,173,181,189,  197,205,213,221,229,237,245,253
// 134,142,150,158,166,174,182,190,  198,206,214,222,230,238,246,254
// 135,143,151,159,167,175,183,191,  199,207,215,223,231,239,247,255
//
// 127,119,111,103, 95, 87, 79, 71,   63, 55, 47, 39, 31, 23, 15,  7
// 126,118,110,102, 94, 86, 78, 70,   62, 54, 46, 38, 30, 22, 14,  6
// 125,117,109,101, 93, 85, 77, 69,   61, 53, 45, 37, 29, 21, 13,  5
// 124,116,108,100, 92, 84, 76, 68,   60, 52, 44, 36, 28, 20, 12,  4
// 123,115,107, 99, 91, 83, 75, 67,   59, 51, 43, 35, 27, 19, 11,  3
// 122,114,106, 98, 90, 82, 74, 66,   58, 50, 42, 34, 26, 18, 10,  2
// 121,113,105, 97, 89, 81, 73, 65,   57, 49, 41, 33, 25, 17,  9,  1
// 120,112,104, 96, 88, 80, 72, 64,   56, 48, 40, 32, 24, 16,  8,  0 <- Pin 1
//
// The lens inverts the image, so to look toward the upper left pick a center
// SPAD in the lower right.
func (v *VL53L1X) SetROICenter(spadNumber uint8) error {
	return v.writeReg(ROI_CONFIG_USER_ROI_CENTRE_SPAD, spadNumber)
}

// GetROICenter returns the current center SPAD
func (v *VL53L1X) GetROICenter() (uint8, error) {
	return v.readReg(ROI_CONFIG_USER_ROI_CENTRE_SPAD)
}
