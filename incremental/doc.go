// Package incremental provides a build context whose scanners report only the
// files that changed since the previous build.
//
// A Context remembers the size and modification time of every file its
// scanners reported. Commit marks the current build as done, and Save/Load
// persist the recorded state between processes, by default under the XDG
// cache directory.
//
//	bc, err := incremental.New()
//	if err != nil {
//	    return err
//	}
//	files, err := fileutil.ScanDirectory(ctx, "src/main/resources", []string{"**/*.xsd"}, nil, true,
//	    fileutil.WithBuildContext(bc))
//	...
//	bc.Commit()
//	return bc.Save()
package incremental
