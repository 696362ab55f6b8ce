package rerr

var kindNames = map[Kind]string{
	KindUnknown:                                    "unknown",
	KindNoBytesLeft:                                "no_bytes_left",
	KindNotEnoughBytesForType:                      "not_enough_bytes_for_type",
	KindInvalidBool:                                "invalid_bool",
	KindUnevenUTF16Input:                           "uneven_utf16_input",
	KindUTF16Decode:                                "utf16_decode",
	KindISO88591Decode:                             "iso8859_decode",
	KindStringSizeUnavailable:                      "string_size_unavailable",
	KindOptionalStringBadBool:                      "optional_string_bad_bool",
	KindString0TerminatedNoNul:                     "string_0_terminated_no_nul",
	KindPackHeaderIncomplete:                       "pack_header_incomplete",
	KindPackSubHeaderMissing:                       "pack_sub_header_missing",
	KindPackIndexesIncomplete:                      "pack_indexes_incomplete",
	KindUnknownPfhFileType:                         "unknown_pfh_file_type",
	KindUnknownPfhVersion:                          "unknown_pfh_version",
	KindUnknownEsfSignature:                        "unknown_esf_signature",
	KindUnknownEsfDataType:                         "unknown_esf_data_type",
	KindEsfRecordNameNotFound:                      "esf_record_name_not_found",
	KindEsfStringNotFound:                          "esf_string_not_found",
	KindUnsupportedFastBinSignature:                "unsupported_fastbin_signature",
	KindUnsupportedFastBinVersion:                  "unsupported_fastbin_version",
	KindAnimsTableUnknownVersion:                   "anims_table_unknown_version",
	KindPortraitSettingsUnsupportedVersion:         "portrait_settings_unsupported_version",
	KindAnimFragmentUnsupportedVersion:             "anim_fragment_unsupported_version",
	KindMatchedCombatUnsupportedVersion:            "matched_combat_unsupported_version",
	KindDecodeFieldError:                           "decode_field_error",
	KindSequenceIndexError:                         "sequence_index_error",
	KindTableIncomplete:                            "table_incomplete",
	KindRowWrongFieldCount:                         "row_wrong_field_count",
	KindWrongFieldType:                             "wrong_field_type",
	KindDbNoDefinitionsFound:                       "db_no_definitions_found",
	KindDbNoDefinitionsAndEmpty:                    "db_no_definitions_and_empty",
	KindNotADbTable:                                "not_a_db_table",
	KindNotALocTable:                               "not_a_loc_table",
	KindMismatchedSize:                             "mismatched_size",
	KindDataCannotBeCompressed:                     "data_cannot_be_compressed",
	KindDataCannotBeDecompressed:                   "data_cannot_be_decompressed",
	KindFileSourceChanged:                          "file_source_changed",
	KindDataTooBigForContainer:                     "data_too_big_for_container",
	KindFileNotFound:                               "file_not_found",
	KindFileNotDecoded:                             "file_not_decoded",
	KindReservedFile:                               "reserved_file",
	KindEmptyDestination:                           "empty_destination",
	KindNoPacksProvided:                            "no_packs_provided",
	KindIO:                                         "io",
	KindEncryptedPackNotWritable:                   "encrypted_pack_not_writable",
	KindDependenciesCacheNotGeneratedOrOutOfDate:   "dependencies_cache_not_generated_or_out_of_date",
	KindGlobalReplaceRequiresSameLengthAndNotRegex: "global_replace_requires_same_length_and_not_regex",
	KindPatchEmptyPack:                             "patch_empty_pack",
	KindRFileMergeOnlyOneFileProvided:              "rfile_merge_only_one_file_provided",
	KindRFileMergeDifferentTypes:                   "rfile_merge_different_types",
	KindRFileMergeTablesDifferentNames:             "rfile_merge_tables_different_names",
	KindRFileMergeNotSupportedForType:              "rfile_merge_not_supported_for_type",
	KindAssemblyKitUnsupportedVersion:              "assembly_kit_unsupported_version",
	KindAssemblyKitNotFound:                        "assembly_kit_not_found",
	KindAssemblyKitIgnoredTable:                    "assembly_kit_ignored_table",
	KindAssemblyKitLocalisableFieldsNotFound:       "assembly_kit_localisable_fields_not_found",
	KindRawTableMissingDefinition:                  "raw_table_missing_definition",
	KindImportTsvIncorrectRow:                      "import_tsv_incorrect_row",
	KindImportTsvWrongType:                         "import_tsv_wrong_type",
	KindImportTsvInvalidVersion:                    "import_tsv_invalid_version",
	KindImportTsvInvalidPath:                       "import_tsv_invalid_path",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
