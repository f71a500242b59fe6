// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package main

import (
	"os"
	"strconv"
	"time"
)

// Environment variables providing the flag defaults.
const (
	envName    = "ILT_NAME"
	envSysfs   = "ILT_SYSFS"
	envProcfs  = "ILT_PROCFS"
	envDev     = "ILT_DEV"
	envEvents  = "ILT_EVENTS"
	envDelayMs = "ILT_DELAY_MS"
	envMode    = "ILT_MODE"
	envTimeout = "ILT_TIMEOUT"
)

func envString(key string, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

func envInt(key string, def int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return def
}

func envUint32(key string, def uint32) uint32 {
	if value, err := strconv.ParseUint(os.Getenv(key), 10, 32); err == nil {
		return uint32(value)
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return def
}
