//go:build !linux

package data

func fillSysStat(stat *VirtualFileStat, sys any) {}
