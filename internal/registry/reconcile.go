package registry

import (
	"sort"

	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
	"github.com/wheelhouse-labs/wheelhouse/internal/wheel"
)

// Report describes how the wheels directory and the manifest disagree.
type Report struct {
	// Orphans are wheel files with no manifest entry.
	Orphans []Entry
	// Dangling are canonical manifest entries whose file is missing.
	Dangling []string
	// Foreign are manifest entries outside the "./wheels/" convention.
	Foreign []string
	// Duplicates maps a normalized project name to its wheels when they
	// carry more than one version. Several platform builds of one version
	// are not duplicates.
	Duplicates map[string][]string
}

// Clean reports whether the directory and manifest agree.
func (r Report) Clean() bool {
	return len(r.Orphans) == 0 && len(r.Dangling) == 0 && len(r.Foreign) == 0 && len(r.Duplicates) == 0
}

// Reconcile compares the wheels directory listing with the manifest's
// entries.
func Reconcile(entries []Entry, manifestEntries []string) Report {
	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		onDisk[e.Name] = true
	}

	r := Report{Duplicates: map[string][]string{}}
	registered := map[string]bool{}
	for _, me := range manifestEntries {
		name, ok := manifest.FilenameOf(me)
		if !ok {
			r.Foreign = append(r.Foreign, me)
			continue
		}
		registered[name] = true
		if !onDisk[name] {
			r.Dangling = append(r.Dangling, me)
		}
	}

	byProject := map[string][]string{}
	for _, e := range entries {
		if !registered[e.Name] {
			r.Orphans = append(r.Orphans, e)
		}
		f, err := wheel.Parse(e.Name)
		if err != nil {
			continue
		}
		byProject[f.Project()] = append(byProject[f.Project()], e.Name)
	}
	for project, files := range byProject {
		versions := map[string]bool{}
		for _, f := range files {
			p, _ := wheel.Parse(f)
			versions[p.Version] = true
		}
		if len(versions) < 2 {
			continue
		}
		sort.Slice(files, func(i, j int) bool {
			fi, _ := wheel.Parse(files[i])
			fj, _ := wheel.Parse(files[j])
			return wheel.Less(fi, fj)
		})
		r.Duplicates[project] = files
	}
	return r
}
