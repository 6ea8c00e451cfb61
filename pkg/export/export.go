package export

// GeneratorName is stamped into rendered reports.
const GeneratorName = "vissm v1.0"

// classificationBanner heads every eMASS-bound worksheet. eMASS rejects
// templates without the classification label.
const classificationBanner = "***** UNCLASSIFIED//FOR OFFICIAL USE ONLY *****"
